// internal/domain/cart/engine.go
package cart

import (
	"errors"
	"time"

	"github.com/your-org/apparel-storefront/internal/domain/coupon"
)

// ErrInvalidQuantity is returned when a line is added with fewer than one unit
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CouponLookup resolves coupon codes, ignoring case
type CouponLookup interface {
	Lookup(code string) (coupon.Coupon, bool)
}

// Cart is the pricing engine for one shopper. It performs no I/O and is not
// safe for concurrent use; each session owns its own Cart.
type Cart struct {
	lines    []Line
	applied  *coupon.Coupon
	coupons  CouponLookup
	shipping ShippingPolicy
	now      func() time.Time
}

// Option configures a Cart
type Option func(*Cart)

// WithClock sets the clock used for coupon expiry
func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

// WithShipping sets the shipping policy
func WithShipping(p ShippingPolicy) Option {
	return func(c *Cart) { c.shipping = p }
}

// New creates an empty cart resolving coupon codes through coupons
func New(coupons CouponLookup, opts ...Option) *Cart {
	c := &Cart{
		lines:    []Line{},
		coupons:  coupons,
		shipping: DefaultShipping,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds a cart from a saved state. Lines with the same product and
// size are merged and lines below one unit are dropped.
func Restore(state State, coupons CouponLookup, opts ...Option) *Cart {
	c := New(coupons, opts...)
	for _, l := range state.Lines {
		if l.Quantity < 1 {
			continue
		}
		c.merge(l.Product, l.Size, l.Quantity)
	}
	if state.Coupon != nil {
		applied := *state.Coupon
		c.applied = &applied
	}
	return c
}

// State returns a copy of the cart content
func (c *Cart) State() State {
	s := State{Lines: c.Lines()}
	if c.applied != nil {
		applied := *c.applied
		s.Coupon = &applied
	}
	return s
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// AppliedCoupon returns the applied coupon, if any
func (c *Cart) AppliedCoupon() (coupon.Coupon, bool) {
	if c.applied == nil {
		return coupon.Coupon{}, false
	}
	return *c.applied, true
}

// AddLine adds quantity units of a product size, merging into an existing line.
func (c *Cart) AddLine(p ProductRef, size string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.merge(p, size, quantity)
	return nil
}

func (c *Cart) merge(p ProductRef, size string, quantity int) {
	for i := range c.lines {
		if c.lines[i].matches(p.ID, size) {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Size: size, Quantity: quantity})
}

// RemoveLine removes the line for a product size if present
func (c *Cart) RemoveLine(productID, size string) {
	for i := range c.lines {
		if c.lines[i].matches(productID, size) {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces a line's quantity; below one removes the line.
func (c *Cart) UpdateQuantity(productID, size string, quantity int) {
	if quantity < 1 {
		c.RemoveLine(productID, size)
		return
	}
	for i := range c.lines {
		if c.lines[i].matches(productID, size) {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart and drops the applied coupon
func (c *Cart) Clear() {
	c.lines = []Line{}
	c.applied = nil
}

// Total is the sum of price times quantity over all lines
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// Count is the number of units in the cart
func (c *Cart) Count() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// ApplyCoupon validates code against the current total and applies it,
// replacing any coupon already applied. The cart is unchanged on failure.
func (c *Cart) ApplyCoupon(code string) CouponResult {
	if c.coupons == nil {
		return CouponResult{Message: coupon.MsgInvalidCode}
	}

	found, ok := c.coupons.Lookup(code)
	if !ok {
		return CouponResult{Message: coupon.MsgInvalidCode}
	}

	if err := found.Check(c.Total(), c.now()); err != nil {
		return CouponResult{Message: err.Error()}
	}

	c.applied = &found
	return CouponResult{Success: true, Message: coupon.MsgApplied}
}

// RemoveCoupon drops the applied coupon
func (c *Cart) RemoveCoupon() {
	c.applied = nil
}

// Discount is computed on demand from the current total. The coupon is not
// re-checked here, so it keeps applying after lines change.
func (c *Cart) Discount() int64 {
	if c.applied == nil {
		return 0
	}
	return c.applied.DiscountFor(c.Total())
}

// FinalTotal is total minus discount. A flat coupon may take it below zero.
func (c *Cart) FinalTotal() int64 {
	return c.Total() - c.Discount()
}

// Shipping is free at or above the threshold; an empty cart ships nothing.
func (c *Cart) Shipping() int64 {
	if len(c.lines) == 0 || c.Total() >= c.shipping.FreeThreshold {
		return 0
	}
	return c.shipping.Fee
}

// GrandTotal is the amount payable at checkout
func (c *Cart) GrandTotal() int64 {
	return c.FinalTotal() + c.Shipping()
}

// Totals collects every derived amount in one value
func (c *Cart) Totals() CartTotals {
	return CartTotals{
		ItemCount:      len(c.lines),
		TotalQuantity:  c.Count(),
		SubTotal:       c.Total(),
		DiscountAmount: c.Discount(),
		FinalTotal:     c.FinalTotal(),
		ShippingCost:   c.Shipping(),
		GrandTotal:     c.GrandTotal(),
	}
}
