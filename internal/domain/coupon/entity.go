// internal/domain/coupon/entity.go
package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is the discount kind of a coupon
type Type string

const (
	TypeFlat       Type = "flat"
	TypePercentage Type = "percentage"
)

// Messages shown to shoppers
const (
	MsgInvalidCode = "Invalid coupon code"
	MsgExpired     = "This coupon has expired"
	MsgApplied     = "Coupon applied successfully!"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrExpired       = errors.New("coupon expired")
	ErrMinOrder      = errors.New("minimum order not met")
	ErrDuplicateCode = errors.New("coupon code already exists")
	ErrInvalidCoupon = errors.New("invalid coupon")
)

// Coupon is a discount code. Amounts are whole rupees.
// MaxDiscount caps percentage coupons; zero means no cap.
// ExpiresAt is a calendar date and the coupon is valid through the whole day.
type Coupon struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Type        Type      `gorm:"not null;size:20" json:"type"`
	Value       int64     `gorm:"not null" json:"value"`
	MinOrder    int64     `gorm:"not null;default:0" json:"minOrder"`
	MaxDiscount int64     `gorm:"default:0" json:"maxDiscount,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	ExpiresAt   time.Time `gorm:"type:date;not null" json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// BeforeCreate assigns an ID and normalizes the code
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Code = NormalizeCode(c.Code)
	return nil
}

// RuleError is a coupon rejection carrying the shopper-facing message
type RuleError struct {
	Err     error
	Message string
}

func (e *RuleError) Error() string { return e.Message }
func (e *RuleError) Unwrap() error { return e.Err }

// NormalizeCode trims and upper-cases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MinOrderMessage is the rejection text for a subtotal below the minimum
func MinOrderMessage(minOrder int64) string {
	return fmt.Sprintf("Minimum order of ₹%d required", minOrder)
}

// IsExpired reports whether the expiry date lies before now's calendar date
// in now's location.
func (c *Coupon) IsExpired(now time.Time) bool {
	ey, em, ed := c.ExpiresAt.Date()
	ny, nm, nd := now.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return today.After(expiry)
}

// Check runs the eligibility rules in order: active, expiry, minimum order.
func (c *Coupon) Check(subtotal int64, now time.Time) error {
	if !c.IsActive || c.IsExpired(now) {
		return &RuleError{Err: ErrExpired, Message: MsgExpired}
	}
	if subtotal < c.MinOrder {
		return &RuleError{Err: ErrMinOrder, Message: MinOrderMessage(c.MinOrder)}
	}
	return nil
}

// DiscountFor computes the discount on subtotal. Flat coupons are never capped.
// Percentage discounts are capped first and then rounded half up.
func (c *Coupon) DiscountFor(subtotal int64) int64 {
	switch c.Type {
	case TypeFlat:
		return c.Value
	case TypePercentage:
		scaled := subtotal * c.Value // hundredths of a rupee
		if c.MaxDiscount > 0 && scaled > c.MaxDiscount*100 {
			return c.MaxDiscount
		}
		return (scaled + 50) / 100
	default:
		return 0
	}
}

// Validate checks the coupon definition itself
func (c *Coupon) Validate() error {
	if NormalizeCode(c.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidCoupon)
	}
	switch c.Type {
	case TypeFlat:
		if c.Value <= 0 {
			return fmt.Errorf("%w: flat value must be positive", ErrInvalidCoupon)
		}
	case TypePercentage:
		if c.Value <= 0 || c.Value > 100 {
			return fmt.Errorf("%w: percentage must be between 1 and 100", ErrInvalidCoupon)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCoupon, c.Type)
	}
	if c.MinOrder < 0 || c.MaxDiscount < 0 {
		return fmt.Errorf("%w: amounts cannot be negative", ErrInvalidCoupon)
	}
	if c.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: expiry date is required", ErrInvalidCoupon)
	}
	return nil
}

// Catalog is an in-memory set of coupons looked up by code, ignoring case
type Catalog []Coupon

// Lookup finds a coupon by code
func (cs Catalog) Lookup(code string) (Coupon, bool) {
	for _, c := range cs {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Coupon{}, false
}
