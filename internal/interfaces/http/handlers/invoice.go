// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/order"
)

// InvoiceRenderer produces invoice documents for an order
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
	RenderHTML(o *order.Order) (string, error)
}

// InvoiceLookup finds orders by their invoice number
type InvoiceLookup interface {
	GetByInvoice(ctx context.Context, invoiceNumber string) (*order.Order, error)
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	orders   InvoiceLookup
	renderer InvoiceRenderer
	logger   *logrus.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orders InvoiceLookup, renderer InvoiceRenderer, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{orders: orders, renderer: renderer, logger: logger}
}

// DownloadInvoice handles GET /orders/invoice/:invoiceNumber/pdf
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	o, err := h.orders.GetByInvoice(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	buf, err := h.renderer.GenerateInvoice(o)
	if err != nil {
		h.logger.WithError(err).WithField("invoice", o.InvoiceNumber).Error("Failed to generate invoice")
		respondError(c, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", o.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// PreviewInvoice handles GET /orders/invoice/:invoiceNumber/html
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	o, err := h.orders.GetByInvoice(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	html, err := h.renderer.RenderHTML(o)
	if err != nil {
		h.logger.WithError(err).WithField("invoice", o.InvoiceNumber).Error("Failed to render invoice")
		respondError(c, http.StatusInternalServerError, "Failed to render invoice")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
