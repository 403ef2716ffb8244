// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/order"
	"github.com/your-org/apparel-storefront/internal/domain/payment"
)

// PaymentService is the Razorpay behaviour the handler needs
type PaymentService interface {
	KeyID() string
	CreatePaymentOrder(ctx context.Context, orderID string) (*payment.RazorpayOrder, error)
	VerifyPayment(ctx context.Context, req *payment.VerifyPaymentRequest) (*order.Order, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	payments PaymentService
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// GetRazorpayKey handles GET /payments/razorpay-key
func (h *PaymentHandler) GetRazorpayKey(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"key": h.payments.KeyID()}, "")
}

// CreatePaymentOrder handles POST /payments/create-order
func (h *PaymentHandler) CreatePaymentOrder(c *gin.Context) {
	var req payment.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rzp, err := h.payments.CreatePaymentOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to create payment order")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"id":       rzp.ID,
		"amount":   rzp.Amount,
		"currency": rzp.Currency,
		"receipt":  rzp.Receipt,
	}, "")
}

// VerifyPayment handles POST /payments/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req payment.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.payments.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to verify payment")
		return
	}
	respond(c, http.StatusOK, o, "Payment verified successfully")
}
