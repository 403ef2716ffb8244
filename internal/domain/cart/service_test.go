package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
)

// memoryStore round-trips carts through JSON like the Redis store does
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Load(_ context.Context, sessionID string) (*SessionCart, error) {
	raw, ok := m.data[sessionID]
	if !ok {
		return &SessionCart{SessionID: sessionID, State: State{Lines: []Line{}}}, nil
	}
	var sc SessionCart
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (m *memoryStore) Save(_ context.Context, sc *SessionCart) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	m.data[sc.SessionID] = raw
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

type fakeProducts map[string]*product.Product

func (f fakeProducts) Get(_ context.Context, id string) (*product.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

type fakeCoupons coupon.Catalog

func (f fakeCoupons) FindByCode(_ context.Context, code string) (coupon.Catalog, error) {
	if c, ok := coupon.Catalog(f).Lookup(code); ok {
		return coupon.Catalog{c}, nil
	}
	return coupon.Catalog{}, nil
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()

	cfg := &config.Config{Store: config.StoreConfig{FreeShippingThreshold: 2000, ShippingFee: 199}}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	products := fakeProducts{
		"1": {ID: "1", Name: "Oversized Cotton Tee", Price: 1499, IsActive: true, Sizes: []product.SizeStock{{Size: "M", Stock: 3}, {Size: "XL", Stock: 0}}},
		"2": {ID: "2", Name: "Minimal Logo Hoodie", Price: 2999, IsActive: true, Sizes: []product.SizeStock{{Size: "L", Stock: 10}}},
		"8": {ID: "8", Name: "Wool Blend Coat", Price: 7999, IsActive: false, Sizes: []product.SizeStock{{Size: "M", Stock: 4}}},
	}
	coupons := fakeCoupons(storeCoupons())

	store := newMemoryStore()
	svc := NewService(store, products, coupons, cfg, logger)
	svc.now = func() time.Time { return day(2025, 6, 15) }
	return svc, store
}

func qty(n int) *int { return &n }

func TestServiceAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("missing quantity adds one unit", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "2", Size: "L"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 1, resp.Items[0].Quantity)

		_, err = svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "2", Size: "L", Quantity: qty(0)})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("adds and merges across requests", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "1", Size: "M", Quantity: qty(1)})
		require.NoError(t, err)
		resp, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "1", Size: "M", Quantity: qty(2)})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, 3, resp.Items[0].Quantity)
		assert.Equal(t, int64(4497), resp.Totals.SubTotal)
		assert.Equal(t, int64(0), resp.Totals.ShippingCost)
	})

	t.Run("rejects more than stock including cart", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "1", Size: "M", Quantity: qty(2)})
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "1", Size: "M", Quantity: qty(2)})
		assert.True(t, errors.Is(err, product.ErrInsufficientStock))

		count, err := svc.Count(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("rejects unknown size, inactive and missing products", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "1", Size: "XXL", Quantity: qty(1)})
		assert.True(t, errors.Is(err, product.ErrSizeNotFound))

		_, err = svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "8", Size: "M", Quantity: qty(1)})
		assert.True(t, errors.Is(err, ErrProductUnavailable))

		_, err = svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "404", Size: "M", Quantity: qty(1)})
		assert.True(t, errors.Is(err, ErrProductUnavailable))
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddItem(ctx, "a", &AddItemRequest{ProductID: "2", Size: "L", Quantity: qty(1)})
		require.NoError(t, err)

		other, err := svc.GetCart(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, other.Items)
	})
}

func TestServiceUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "2", Size: "L", Quantity: qty(1)})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(ctx, "s1", "2", "L", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Totals.TotalQuantity)

	_, err = svc.UpdateItem(ctx, "s1", "2", "L", 11)
	assert.True(t, errors.Is(err, product.ErrInsufficientStock))

	resp, err = svc.UpdateItem(ctx, "s1", "2", "L", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	resp, err = svc.RemoveItem(ctx, "s1", "2", "L")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestServiceCouponLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.AddItem(ctx, "s1", &AddItemRequest{ProductID: "2", Size: "L", Quantity: qty(1)})
	require.NoError(t, err)

	res, err := svc.ApplyCoupon(ctx, "s1", "summer25")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(750), res.Cart.Totals.DiscountAmount)

	res, err = svc.ApplyCoupon(ctx, "s1", "BOGUS")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, coupon.MsgInvalidCode, res.Message)
	require.NotNil(t, res.Cart.Coupon)
	assert.Equal(t, "SUMMER25", res.Cart.Coupon.Code)

	// the applied coupon survives a reload from the store
	got, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2249), got.Totals.FinalTotal)

	got, err = svc.RemoveCoupon(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got.Coupon)
	assert.Equal(t, int64(0), got.Totals.DiscountAmount)

	require.NoError(t, svc.Clear(ctx, "s1"))
	assert.Empty(t, store.data)
}
