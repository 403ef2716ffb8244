package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/order"
)

func TestFormatINR(t *testing.T) {
	cases := map[int64]string{
		0:        "₹0",
		199:      "₹199",
		1499:     "₹1,499",
		123456:   "₹1,23,456",
		12345678: "₹1,23,45,678",
		-401:     "-₹401",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), in)
	}
}

func TestRenderHTML(t *testing.T) {
	svc := NewService(&config.Config{Store: config.StoreConfig{CompanyName: "Apparel Co.", CompanyEmail: "support@example.com"}})
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	o := &order.Order{
		InvoiceNumber: "INV-2025-00007",
		Customer:      order.Customer{Name: "Asha <script>", Phone: "9876543210", Address: "12 MG Road"},
		Subtotal:      2998,
		Discount:      200,
		Shipping:      0,
		TotalAmount:   2798,
		CouponCode:    "FLAT200",
		PaymentMethod: order.PaymentMethodCOD,
		PaymentStatus: order.PaymentStatusPending,
		OrderStatus:   order.OrderStatusPlaced,
		CreatedAt:     time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{Name: "Oversized Cotton Tee", Size: "M", Quantity: 2, Price: 1499, TotalPrice: 2998},
		},
	}

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)

	assert.Contains(t, html, "INV-2025-00007")
	assert.Contains(t, html, "15 June 2025")
	assert.Contains(t, html, "₹2,998")
	assert.Contains(t, html, "-₹200")
	assert.Contains(t, html, "FLAT200")
	assert.Contains(t, html, "Free")
	assert.Contains(t, html, "Asha &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}
