// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
)

// ProductRef is the product data a cart line needs for pricing and display
type ProductRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
	Image         string `json:"image,omitempty"`
}

// RefFromProduct copies the fields a cart line keeps from a catalogue product
func RefFromProduct(p *product.Product) ProductRef {
	return ProductRef{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.PrimaryImage(),
	}
}

// Line is one (product, size) entry of a cart
type Line struct {
	Product  ProductRef `json:"product"`
	Size     string     `json:"size"`
	Quantity int        `json:"quantity"`
}

// LineTotal is price times quantity
func (l Line) LineTotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

func (l Line) matches(productID, size string) bool {
	return l.Product.ID == productID && l.Size == size
}

// State is the serialisable content of a cart
type State struct {
	Lines  []Line         `json:"lines"`
	Coupon *coupon.Coupon `json:"coupon,omitempty"`
}

// SessionCart represents a shopper's cart kept in Redis between requests
type SessionCart struct {
	SessionID string    `json:"session_id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CouponResult is the outcome of applying a coupon code
type CouponResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount      int   `json:"itemCount"`     // Number of distinct lines
	TotalQuantity  int   `json:"totalQuantity"` // Sum of all quantities
	SubTotal       int64 `json:"subTotal"`
	DiscountAmount int64 `json:"discountAmount"`
	FinalTotal     int64 `json:"finalTotal"` // SubTotal minus discount, never clamped
	ShippingCost   int64 `json:"shippingCost"`
	GrandTotal     int64 `json:"grandTotal"`
}

// ShippingPolicy charges a flat fee below the free-shipping threshold
type ShippingPolicy struct {
	FreeThreshold int64
	Fee           int64
}

// DefaultShipping is free from ₹2000, otherwise ₹199
var DefaultShipping = ShippingPolicy{FreeThreshold: 2000, Fee: 199}
