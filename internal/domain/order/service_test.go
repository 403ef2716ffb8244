package order

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/cart"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
)

type sessionCarts struct {
	state   cart.State
	cleared []string
}

func (f *sessionCarts) Engine(_ context.Context, sessionID string, lookup cart.CouponLookup) (*cart.Cart, *cart.SessionCart, error) {
	return cart.Restore(f.state, lookup, f.Options()...), &cart.SessionCart{SessionID: sessionID, State: f.state}, nil
}

func (f *sessionCarts) Options() []cart.Option {
	return []cart.Option{cart.WithShipping(cart.ShippingPolicy{FreeThreshold: 2000, Fee: 199})}
}

func (f *sessionCarts) Clear(_ context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type catalogueReader map[string]*product.Product

func (f catalogueReader) GetMany(_ context.Context, ids []string) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f[id]; ok && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type couponFinder coupon.Catalog

func (f couponFinder) FindByCode(_ context.Context, code string) (coupon.Catalog, error) {
	if c, ok := coupon.Catalog(f).Lookup(code); ok {
		return coupon.Catalog{c}, nil
	}
	return coupon.Catalog{}, nil
}

type counter struct{ n int64 }

func (c *counter) Next(context.Context, int) (int64, error) {
	c.n++
	return c.n, nil
}

type memoryRepository struct {
	placed []*Order
	err    error
}

func (r *memoryRepository) Place(_ context.Context, o *Order) error {
	if r.err != nil {
		return r.err
	}
	r.placed = append(r.placed, o)
	return nil
}

func newCheckoutService(carts *sessionCarts, repo *memoryRepository) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Service{
		repo:     repo,
		config:   &config.Config{Store: config.StoreConfig{InvoicePrefix: "INV"}},
		logger:   logger,
		products: catalogueReader(catalogue()),
		carts:    carts,
		coupons:  couponFinder(coupons()),
		invoices: &counter{},
		now:      func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func sessionLine(p *product.Product, size string, quantity int) cart.Line {
	return cart.Line{Product: cart.RefFromProduct(p), Size: size, Quantity: quantity}
}

func customerInput() *CheckoutInput {
	return &CheckoutInput{
		Customer:      Customer{Name: "Asha Rao", Phone: "9876543210", Address: "12 MG Road, Bengaluru"},
		PaymentMethod: PaymentMethodCOD,
	}
}

func appliedCoupon(code string) *coupon.Coupon {
	c, _ := coupons().Lookup(code)
	return &c
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	products := catalogue()

	t.Run("places the order and clears the cart", func(t *testing.T) {
		carts := &sessionCarts{state: cart.State{
			Lines:  []cart.Line{sessionLine(products["tee"], "M", 2)},
			Coupon: appliedCoupon("FLAT200"),
		}}
		repo := &memoryRepository{}
		svc := newCheckoutService(carts, repo)

		o, err := svc.Checkout(ctx, "s1", customerInput())
		require.NoError(t, err)

		assert.Equal(t, []string{"s1"}, carts.cleared)
		require.Len(t, repo.placed, 1)
		assert.Equal(t, "INV-2025-00001", o.InvoiceNumber)
		assert.Equal(t, "FLAT200", o.CouponCode)
		assert.Equal(t, int64(2998), o.Subtotal)
		assert.Equal(t, int64(200), o.Discount)
		assert.Equal(t, int64(0), o.Shipping)
		assert.Equal(t, int64(2798), o.TotalAmount)
		require.Len(t, o.Items, 1)
		assert.Equal(t, 2, o.Items[0].Quantity)
	})

	t.Run("charges catalogue prices", func(t *testing.T) {
		stale := *products["hoodie"]
		stale.Price = 10
		carts := &sessionCarts{state: cart.State{Lines: []cart.Line{sessionLine(&stale, "L", 1)}}}
		svc := newCheckoutService(carts, &memoryRepository{})

		o, err := svc.Checkout(ctx, "s1", customerInput())
		require.NoError(t, err)
		assert.Equal(t, int64(2999), o.Subtotal)
	})

	t.Run("keeps the cart when placement fails", func(t *testing.T) {
		carts := &sessionCarts{state: cart.State{Lines: []cart.Line{sessionLine(products["hoodie"], "L", 1)}}}
		svc := newCheckoutService(carts, &memoryRepository{err: product.ErrInsufficientStock})

		_, err := svc.Checkout(ctx, "s1", customerInput())
		assert.ErrorIs(t, err, product.ErrInsufficientStock)
		assert.Empty(t, carts.cleared)
	})

	t.Run("rechecks the session coupon minimum", func(t *testing.T) {
		carts := &sessionCarts{state: cart.State{
			Lines:  []cart.Line{sessionLine(products["tee"], "M", 1)},
			Coupon: appliedCoupon("SUMMER25"),
		}}
		repo := &memoryRepository{}
		svc := newCheckoutService(carts, repo)

		_, err := svc.Checkout(ctx, "s1", customerInput())
		require.Error(t, err)

		var ruleErr *coupon.RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, coupon.MinOrderMessage(2000), ruleErr.Message)
		assert.ErrorIs(t, err, ErrCouponRejected)
		assert.Empty(t, repo.placed)
		assert.Empty(t, carts.cleared)
	})

	t.Run("empty cart", func(t *testing.T) {
		carts := &sessionCarts{}
		svc := newCheckoutService(carts, &memoryRepository{})

		_, err := svc.Checkout(ctx, "s1", customerInput())
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.Empty(t, carts.cleared)
	})
}
