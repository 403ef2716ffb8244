// internal/domain/order/events.go
package order

import (
	"context"
	"time"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers order events keyed by order ID
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// PlacedEvent is emitted once an order has been stored and stock reserved
type PlacedEvent struct {
	Type          string        `json:"type"`
	OrderID       string        `json:"order_id"`
	InvoiceNumber string        `json:"invoice_number"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalAmount   int64         `json:"total_amount"`
	Items         []EventItem   `json:"items"`
	Timestamp     time.Time     `json:"timestamp"`
}

// EventItem is an order line as carried in events
type EventItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// StatusChangedEvent is emitted when fulfilment or payment status changes
type StatusChangedEvent struct {
	Type          string        `json:"type"`
	OrderID       string        `json:"order_id"`
	InvoiceNumber string        `json:"invoice_number"`
	From          OrderStatus   `json:"from"`
	To            OrderStatus   `json:"to"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Timestamp     time.Time     `json:"timestamp"`
}

func newPlacedEvent(o *Order) PlacedEvent {
	items := make([]EventItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = EventItem{ProductID: it.ProductID, Size: it.Size, Quantity: it.Quantity}
	}
	return PlacedEvent{
		Type:          EventOrderPlaced,
		OrderID:       o.ID,
		InvoiceNumber: o.InvoiceNumber,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Items:         items,
		Timestamp:     time.Now().UTC(),
	}
}

func newStatusChangedEvent(o *Order, from OrderStatus) StatusChangedEvent {
	return StatusChangedEvent{
		Type:          EventOrderStatusChanged,
		OrderID:       o.ID,
		InvoiceNumber: o.InvoiceNumber,
		From:          from,
		To:            o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		Timestamp:     time.Now().UTC(),
	}
}

func (e PlacedEvent) EventType() string        { return e.Type }
func (e StatusChangedEvent) EventType() string { return e.Type }
