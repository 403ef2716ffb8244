package order

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/domain/cart"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
)

func catalogue() map[string]*product.Product {
	return map[string]*product.Product{
		"tee": {
			ID: "tee", Name: "Oversized Cotton Tee", Price: 1499, IsActive: true,
			Sizes: []product.SizeStock{{Size: "M", Stock: 12}, {Size: "XL", Stock: 0}},
		},
		"hoodie": {
			ID: "hoodie", Name: "Minimal Logo Hoodie", Price: 2999, IsActive: true,
			Sizes: []product.SizeStock{{Size: "L", Stock: 2}},
		},
		"coat": {
			ID: "coat", Name: "Wool Blend Coat", Price: 7999, IsActive: false,
			Sizes: []product.SizeStock{{Size: "M", Stock: 4}},
		},
	}
}

func coupons() coupon.Catalog {
	return coupon.Catalog{
		{Code: "FLAT200", Type: coupon.TypeFlat, Value: 200, MinOrder: 1500, IsActive: true, ExpiresAt: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Code: "FLAT100", Type: coupon.TypeFlat, Value: 100, MinOrder: 1000, IsActive: true, ExpiresAt: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Code: "SUMMER25", Type: coupon.TypePercentage, Value: 25, MinOrder: 2000, MaxDiscount: 1000, IsActive: true, ExpiresAt: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPlaced, OrderStatusConfirmed, true},
		{OrderStatusPlaced, OrderStatusShipped, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPlaced, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		o := &Order{OrderStatus: tt.from}
		if got := o.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	assert.True(t, (&Order{OrderStatus: OrderStatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Order{OrderStatus: OrderStatusShipped}).CanBeCancelled())
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-00042", FormatInvoiceNumber("INV", 2025, 42))
	assert.Equal(t, "INV-2025-123456", FormatInvoiceNumber("INV", 2025, 123456))
}

func TestAmountInPaise(t *testing.T) {
	o := &Order{TotalAmount: 3498}
	assert.Equal(t, int64(349800), o.AmountInPaise())
}

func TestValidateRequest(t *testing.T) {
	good := Customer{Name: "Asha", Phone: "9876543210", Address: "12 MG Road, Bengaluru"}
	assert.NoError(t, validateRequest(good, PaymentMethodCOD))
	assert.NoError(t, validateRequest(good, PaymentMethodRazorpay))

	err := validateRequest(good, "UPI")
	assert.True(t, errors.Is(err, ErrInvalidPaymentMethod))

	for _, c := range []Customer{
		{Phone: good.Phone, Address: good.Address},
		{Name: good.Name, Phone: "  ", Address: good.Address},
		{Name: good.Name, Phone: good.Phone},
	} {
		assert.ErrorIs(t, validateRequest(c, PaymentMethodCOD), ErrInvalidCustomer)
	}
}

func TestPriceItems(t *testing.T) {
	t.Run("charges catalogue price, not client price", func(t *testing.T) {
		engine, err := priceItems(catalogue(), []ItemInput{
			{ProductID: "tee", Size: "M", Quantity: 2, Price: 1},
			{ProductID: "hoodie", Size: "L", Quantity: 1},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5997), engine.Total())
	})

	t.Run("merged lines are checked against stock", func(t *testing.T) {
		_, err := priceItems(catalogue(), []ItemInput{
			{ProductID: "hoodie", Size: "L", Quantity: 2},
			{ProductID: "hoodie", Size: "L", Quantity: 1},
		}, nil)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)
	})

	t.Run("rejects bad lines", func(t *testing.T) {
		_, err := priceItems(catalogue(), []ItemInput{{ProductID: "coat", Size: "M", Quantity: 1}}, nil)
		assert.ErrorIs(t, err, product.ErrProductNotFound)

		_, err = priceItems(catalogue(), []ItemInput{{ProductID: "ghost", Size: "M", Quantity: 1}}, nil)
		assert.ErrorIs(t, err, product.ErrProductNotFound)

		_, err = priceItems(catalogue(), []ItemInput{{ProductID: "tee", Size: "XXL", Quantity: 1}}, nil)
		assert.ErrorIs(t, err, product.ErrSizeNotFound)

		_, err = priceItems(catalogue(), []ItemInput{{ProductID: "tee", Size: "XL", Quantity: 1}}, nil)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)

		_, err = priceItems(catalogue(), []ItemInput{{ProductID: "tee", Size: "M", Quantity: 0}}, nil)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		_, err = priceItems(catalogue(), nil, nil)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})
}

func TestApplyCouponRejectsOrder(t *testing.T) {
	engine, err := priceItems(catalogue(), []ItemInput{{ProductID: "tee", Size: "M", Quantity: 1}}, coupons())
	require.NoError(t, err)

	err = applyCoupon(engine, "SUMMER25")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCouponRejected)

	var ruleErr *coupon.RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "Minimum order of ₹2000 required", ruleErr.Message)

	assert.NoError(t, applyCoupon(engine, ""))
}

func TestBuildOrder(t *testing.T) {
	engine, err := priceItems(catalogue(), []ItemInput{
		{ProductID: "tee", Size: "M", Quantity: 1},
	}, coupons(), cart.WithShipping(cart.ShippingPolicy{FreeThreshold: 2000, Fee: 199}))
	require.NoError(t, err)
	require.NoError(t, applyCoupon(engine, "flat100"))

	o := buildOrder(engine, Customer{Name: " Asha ", Phone: "9876543210", Address: "Bengaluru"}, PaymentMethodCOD)

	assert.Equal(t, "Asha", o.Customer.Name)
	assert.Equal(t, int64(1499), o.Subtotal)
	assert.Equal(t, int64(100), o.Discount)
	assert.Equal(t, int64(199), o.Shipping)
	assert.Equal(t, int64(1598), o.TotalAmount)
	assert.Equal(t, "FLAT100", o.CouponCode)
	assert.Equal(t, OrderStatusPlaced, o.OrderStatus)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	require.Len(t, o.Items, 1)
	assert.Equal(t, OrderItem{ProductID: "tee", Name: "Oversized Cotton Tee", Size: "M", Quantity: 1, Price: 1499, TotalPrice: 1499}, o.Items[0])
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, OrderStatusPlaced, o.StatusHistory[0].Status)

	event := newPlacedEvent(o)
	assert.Equal(t, EventOrderPlaced, event.Type)
	assert.Equal(t, []EventItem{{ProductID: "tee", Size: "M", Quantity: 1}}, event.Items)
}

func TestBuildOrderClause(t *testing.T) {
	assert.Equal(t, "total_amount ASC", buildOrderClause("totalAmount", "asc"))
	assert.Equal(t, "created_at DESC", buildOrderClause("status; DROP", ""))
}
