// internal/domain/payment/service.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/order"
	"github.com/your-org/apparel-storefront/internal/pkg/metrics"
)

var (
	ErrNotOnlinePayment = errors.New("order is not payable online")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrInvalidAmount    = errors.New("order amount must be positive")
	ErrInvalidSignature = errors.New("payment verification failed")
	ErrOrderMismatch    = errors.New("razorpay order does not belong to this order")
)

// Gateway creates payment orders with the provider
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*RazorpayOrder, error)
}

// Orders is the slice of the order service payments need
type Orders interface {
	Get(ctx context.Context, id string) (*order.Order, error)
	GetByRazorpayOrder(ctx context.Context, razorpayOrderID string) (*order.Order, error)
	AttachRazorpayOrder(ctx context.Context, id, razorpayOrderID string) error
	MarkPaid(ctx context.Context, id, razorpayOrderID, razorpayPaymentID string) (*order.Order, error)
	MarkPaymentFailed(ctx context.Context, id string) error
}

// Service handles Razorpay payment processing
type Service struct {
	orders    Orders
	gateway   Gateway
	keyID     string
	keySecret string
	currency  string
	logger    *logrus.Logger
}

// NewService creates a new payment service
func NewService(orders Orders, gateway Gateway, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		orders:    orders,
		gateway:   gateway,
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		currency:  cfg.Store.Currency,
		logger:    logger,
	}
}

// CreatePaymentRequest asks for a gateway order for a stored order
type CreatePaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// VerifyPaymentRequest carries the checkout widget's callback fields
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"orderId" binding:"required"`
}

// KeyID is the public key the checkout widget needs
func (s *Service) KeyID() string {
	return s.keyID
}

// CreatePaymentOrder creates a Razorpay order for the stored order's total
func (s *Service) CreatePaymentOrder(ctx context.Context, orderID string) (*RazorpayOrder, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.PaymentMethod != order.PaymentMethodRazorpay {
		return nil, ErrNotOnlinePayment
	}
	if o.IsPaid() {
		return nil, ErrAlreadyPaid
	}
	if o.OrderStatus == order.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order is cancelled", ErrNotOnlinePayment)
	}
	if o.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	razorpayOrder, err := s.gateway.CreateOrder(ctx, CreateOrderRequest{
		Amount:   o.AmountInPaise(),
		Currency: s.currency,
		Receipt:  o.InvoiceNumber,
		Notes: map[string]string{
			"order_id": o.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
	}

	if err := s.orders.AttachRazorpayOrder(ctx, o.ID, razorpayOrder.ID); err != nil {
		return nil, fmt.Errorf("failed to link Razorpay order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":          o.ID,
		"razorpay_order_id": razorpayOrder.ID,
		"amount":            razorpayOrder.Amount,
	}).Info("Razorpay order created")

	return razorpayOrder, nil
}

// VerifyPayment checks the payment signature and records the outcome
func (s *Service) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*order.Order, error) {
	o, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.checkBinding(ctx, o, req.RazorpayOrderID); err != nil {
		metrics.PaymentVerifications.WithLabelValues(metrics.Outcome(false)).Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":          o.ID,
			"razorpay_order_id": req.RazorpayOrderID,
		}).Warn("Payment rejected before signature check")
		return nil, err
	}

	if !VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.keySecret) {
		metrics.PaymentVerifications.WithLabelValues(metrics.Outcome(false)).Inc()
		if err := s.orders.MarkPaymentFailed(ctx, o.ID); err != nil {
			s.logger.WithError(err).WithField("order_id", o.ID).Error("Failed to record payment failure")
		}
		s.logger.WithFields(logrus.Fields{
			"order_id":            o.ID,
			"razorpay_payment_id": req.RazorpayPaymentID,
		}).Warn("Payment signature mismatch")
		return nil, ErrInvalidSignature
	}

	if o.IsPaid() {
		return o, nil
	}

	paid, err := s.orders.MarkPaid(ctx, o.ID, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}

	metrics.PaymentVerifications.WithLabelValues(metrics.Outcome(true)).Inc()
	s.logger.WithFields(logrus.Fields{
		"order_id":            paid.ID,
		"razorpay_payment_id": req.RazorpayPaymentID,
	}).Info("Payment verified")

	return paid, nil
}

// checkBinding accepts only the gateway order created for o by CreatePaymentOrder
func (s *Service) checkBinding(ctx context.Context, o *order.Order, razorpayOrderID string) error {
	if o.PaymentMethod != order.PaymentMethodRazorpay {
		return ErrNotOnlinePayment
	}
	if o.RazorpayOrderID == "" || o.RazorpayOrderID != razorpayOrderID {
		return ErrOrderMismatch
	}

	owner, err := s.orders.GetByRazorpayOrder(ctx, razorpayOrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return ErrOrderMismatch
		}
		return err
	}
	if owner.ID != o.ID {
		return ErrOrderMismatch
	}
	return nil
}

// VerifySignature checks a checkout signature: hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the API secret.
func VerifySignature(razorpayOrderID, razorpayPaymentID, signature, secret string) bool {
	if secret == "" {
		return false
	}
	expected := Sign(razorpayOrderID, razorpayPaymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the checkout signature for an order and payment pair
func Sign(razorpayOrderID, razorpayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
