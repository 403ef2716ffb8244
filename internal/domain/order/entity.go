// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the fulfilment status
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentMethod is how the shopper pays
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodRazorpay PaymentMethod = "RAZORPAY"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodRazorpay
}

// Order represents a placed order. Amounts are whole rupees.
type Order struct {
	ID            string        `gorm:"primaryKey;type:uuid" json:"_id"`
	InvoiceNumber string        `gorm:"uniqueIndex;not null;size:50" json:"invoiceNumber"`
	Customer      Customer      `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Subtotal      int64         `gorm:"not null" json:"subtotal"`
	Discount      int64         `gorm:"default:0" json:"discount"`
	Shipping      int64         `gorm:"default:0" json:"shipping"`
	TotalAmount   int64         `gorm:"not null" json:"totalAmount"`
	PaymentMethod PaymentMethod `gorm:"not null;size:20" json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"not null;size:20;default:'PENDING'" json:"paymentStatus"`
	OrderStatus   OrderStatus   `gorm:"not null;size:20;default:'PLACED';index" json:"orderStatus"`
	CouponCode    string        `gorm:"size:50" json:"couponCode,omitempty"`

	RazorpayOrderID   string `gorm:"size:100;index" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string `gorm:"size:100" json:"razorpayPaymentId,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"statusHistory,omitempty"`
}

// Customer is the shopper's contact and delivery details
type Customer struct {
	Name    string `gorm:"not null;size:255" json:"name"`
	Phone   string `gorm:"not null;size:20" json:"phone"`
	Address string `gorm:"not null;type:text" json:"address"`
}

// OrderItem represents one line of an order with the price charged
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	OrderID    string `gorm:"type:uuid;not null;index" json:"-"`
	ProductID  string `gorm:"type:uuid;not null;index" json:"productId"`
	Name       string `gorm:"not null;size:255" json:"name"`
	Size       string `gorm:"not null;size:20" json:"size"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	Price      int64  `gorm:"not null" json:"price"`
	TotalPrice int64  `gorm:"not null" json:"totalPrice"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   string      `gorm:"type:uuid;not null;index" json:"-"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	ChangedBy string      `gorm:"size:100" json:"changedBy,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// BeforeCreate assigns a UUID when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether the order may move to status
func (o *Order) CanTransitionTo(status OrderStatus) bool {
	for _, allowed := range transitions[o.OrderStatus] {
		if allowed == status {
			return true
		}
	}
	return false
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.CanTransitionTo(OrderStatusCancelled)
}

func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// AmountInPaise is the total in the smallest currency unit
func (o *Order) AmountInPaise() int64 {
	return o.TotalAmount * 100
}

// AddStatusHistory adds a new status change to history
func (o *Order) AddStatusHistory(status OrderStatus, comment, changedBy string) {
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		ChangedBy: changedBy,
		CreatedAt: time.Now().UTC(),
	})
}

// FormatInvoiceNumber renders PREFIX-YYYY-NNNNN
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
