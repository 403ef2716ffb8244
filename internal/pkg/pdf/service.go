// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/order"
)

// Service renders order invoices
type Service struct {
	company CompanyInfo
	tmpl    *template.Template
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.Store.CompanyName,
			Address: cfg.Store.CompanyAddress,
			Phone:   cfg.Store.CompanyPhone,
			Email:   cfg.Store.CompanyEmail,
			Website: cfg.Store.CompanyWebsite,
		},
		tmpl: template.Must(template.New("invoice").Funcs(template.FuncMap{
			"inr": FormatINR,
		}).Parse(invoiceTemplate)),
		now: time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceDate string
	Order       *order.Order
	Company     CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// RenderHTML renders the invoice page for an order
func (s *Service) RenderHTML(o *order.Order) (string, error) {
	data := InvoiceData{
		InvoiceDate: s.now().Format("2 January 2006"),
		Order:       o,
		Company:     s.company,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateInvoice converts the rendered invoice to PDF with wkhtmltopdf
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Title.Set("Invoice " + o.InvoiceNumber)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// FormatINR renders whole rupees with Indian digit grouping, e.g. ₹1,23,456
func FormatINR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Order.InvoiceNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #111; font-size: 13px; margin: 0; padding: 24px; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #111; padding-bottom: 16px; }
  .header h1 { margin: 0; font-size: 22px; letter-spacing: 2px; text-transform: uppercase; }
  .muted { color: #666; margin: 2px 0; }
  .meta { text-align: right; }
  .section { margin-top: 24px; }
  .section h3 { font-size: 12px; text-transform: uppercase; letter-spacing: 1px; color: #666; margin-bottom: 6px; }
  table { width: 100%; border-collapse: collapse; margin-top: 12px; }
  th { text-align: left; border-bottom: 1px solid #111; padding: 8px 4px; font-size: 11px; text-transform: uppercase; }
  td { padding: 8px 4px; border-bottom: 1px solid #eee; }
  .num { text-align: right; }
  .totals { width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 4px; }
  .grand td { border-top: 2px solid #111; font-weight: bold; font-size: 15px; }
  .badge { display: inline-block; padding: 2px 8px; border: 1px solid #111; font-size: 11px; }
  .footer { margin-top: 40px; text-align: center; color: #666; font-size: 11px; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Company.Name}}</h1>
    {{if .Company.Address}}<p class="muted">{{.Company.Address}}</p>{{end}}
    {{if .Company.Phone}}<p class="muted">Phone: {{.Company.Phone}}</p>{{end}}
    {{if .Company.Email}}<p class="muted">{{.Company.Email}}</p>{{end}}
    {{if .Company.Website}}<p class="muted">{{.Company.Website}}</p>{{end}}
  </div>
  <div class="meta">
    <p><strong>Invoice:</strong> {{.Order.InvoiceNumber}}</p>
    <p><strong>Date:</strong> {{.InvoiceDate}}</p>
    <p><strong>Ordered:</strong> {{.Order.CreatedAt.Format "2 January 2006"}}</p>
    <p><span class="badge">{{.Order.OrderStatus}}</span></p>
  </div>
</div>

<div class="section">
  <h3>Bill to</h3>
  <p><strong>{{.Order.Customer.Name}}</strong></p>
  <p class="muted">{{.Order.Customer.Phone}}</p>
  <p class="muted">{{.Order.Customer.Address}}</p>
</div>

<div class="section">
  <table>
    <thead>
      <tr><th>Item</th><th>Size</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
    </thead>
    <tbody>
      {{range .Order.Items}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Size}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{inr .Price}}</td>
        <td class="num">{{inr .TotalPrice}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{inr .Order.Subtotal}}</td></tr>
    {{if gt .Order.Discount 0}}
    <tr><td>Discount{{if .Order.CouponCode}} ({{.Order.CouponCode}}){{end}}</td><td class="num">-{{inr .Order.Discount}}</td></tr>
    {{end}}
    <tr><td>Shipping</td><td class="num">{{if eq .Order.Shipping 0}}Free{{else}}{{inr .Order.Shipping}}{{end}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{inr .Order.TotalAmount}}</td></tr>
  </table>
</div>

<div class="section">
  <h3>Payment</h3>
  <p>{{.Order.PaymentMethod}} &middot; {{.Order.PaymentStatus}}{{if .Order.RazorpayPaymentID}} &middot; {{.Order.RazorpayPaymentID}}{{end}}</p>
</div>

<div class="footer">
  <p>Thank you for shopping with {{.Company.Name}}.</p>
  {{if .Company.Email}}<p>Questions about this invoice? Write to {{.Company.Email}}</p>{{end}}
</div>
</body>
</html>
`
