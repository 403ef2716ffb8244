package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/order"
)

const testSecret = "test_secret_value"

type fakeOrders struct {
	orders   map[string]*order.Order
	attached map[string]string
	owners   map[string]string
	failed   []string
}

func newFakeOrders(orders ...*order.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*order.Order{}, attached: map[string]string{}, owners: map[string]string{}}
	for _, o := range orders {
		f.orders[o.ID] = o
		if o.RazorpayOrderID != "" {
			f.owners[o.RazorpayOrderID] = o.ID
		}
	}
	return f
}

func (f *fakeOrders) Get(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

// GetByRazorpayOrder resolves through owners, the stand-in for the unique column
func (f *fakeOrders) GetByRazorpayOrder(ctx context.Context, razorpayOrderID string) (*order.Order, error) {
	id, ok := f.owners[razorpayOrderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return f.Get(ctx, id)
}

func (f *fakeOrders) AttachRazorpayOrder(_ context.Context, id, razorpayOrderID string) error {
	f.attached[id] = razorpayOrderID
	f.owners[razorpayOrderID] = id
	f.orders[id].RazorpayOrderID = razorpayOrderID
	return nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id, razorpayOrderID, razorpayPaymentID string) (*order.Order, error) {
	o := f.orders[id]
	o.PaymentStatus = order.PaymentStatusPaid
	o.OrderStatus = order.OrderStatusConfirmed
	o.RazorpayOrderID = razorpayOrderID
	o.RazorpayPaymentID = razorpayPaymentID
	return o, nil
}

func (f *fakeOrders) MarkPaymentFailed(_ context.Context, id string) error {
	f.failed = append(f.failed, id)
	f.orders[id].PaymentStatus = order.PaymentStatusFailed
	return nil
}

type fakeGateway struct {
	requests []CreateOrderRequest
}

func (g *fakeGateway) CreateOrder(_ context.Context, req CreateOrderRequest) (*RazorpayOrder, error) {
	g.requests = append(g.requests, req)
	return &RazorpayOrder{ID: "order_rzp_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func newTestService(orders Orders, gateway Gateway) *Service {
	cfg := &config.Config{
		Razorpay: config.RazorpayConfig{KeyID: "rzp_test_key", KeySecret: testSecret},
		Store:    config.StoreConfig{Currency: "INR"},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(orders, gateway, cfg, logger)
}

func razorpayOrder(id string) *order.Order {
	return &order.Order{
		ID:            id,
		InvoiceNumber: "INV-2025-00001",
		TotalAmount:   3498,
		PaymentMethod: order.PaymentMethodRazorpay,
		PaymentStatus: order.PaymentStatusPending,
		OrderStatus:   order.OrderStatusPlaced,
	}
}

func TestSignature(t *testing.T) {
	sig := Sign("order_1", "pay_1", testSecret)

	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("order_1", "pay_1", sig, testSecret))
	assert.False(t, VerifySignature("order_1", "pay_2", sig, testSecret))
	assert.False(t, VerifySignature("order_1", "pay_1", sig, "other_secret"))
	assert.False(t, VerifySignature("order_1", "pay_1", sig, ""))
}

func TestCreatePaymentOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("amount is in paise", func(t *testing.T) {
		orders := newFakeOrders(razorpayOrder("o1"))
		gateway := &fakeGateway{}
		svc := newTestService(orders, gateway)

		rzp, err := svc.CreatePaymentOrder(ctx, "o1")
		require.NoError(t, err)

		assert.Equal(t, "order_rzp_1", rzp.ID)
		require.Len(t, gateway.requests, 1)
		assert.Equal(t, int64(349800), gateway.requests[0].Amount)
		assert.Equal(t, "INR", gateway.requests[0].Currency)
		assert.Equal(t, "INV-2025-00001", gateway.requests[0].Receipt)
		assert.Equal(t, "order_rzp_1", orders.attached["o1"])
	})

	t.Run("rejects orders that cannot be paid online", func(t *testing.T) {
		cod := razorpayOrder("cod")
		cod.PaymentMethod = order.PaymentMethodCOD
		paid := razorpayOrder("paid")
		paid.PaymentStatus = order.PaymentStatusPaid
		free := razorpayOrder("free")
		free.TotalAmount = 0

		svc := newTestService(newFakeOrders(cod, paid, free), &fakeGateway{})

		_, err := svc.CreatePaymentOrder(ctx, "cod")
		assert.ErrorIs(t, err, ErrNotOnlinePayment)
		_, err = svc.CreatePaymentOrder(ctx, "paid")
		assert.ErrorIs(t, err, ErrAlreadyPaid)
		_, err = svc.CreatePaymentOrder(ctx, "free")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = svc.CreatePaymentOrder(ctx, "missing")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("valid signature marks order paid", func(t *testing.T) {
		o := razorpayOrder("o1")
		o.RazorpayOrderID = "order_rzp_1"
		svc := newTestService(newFakeOrders(o), &fakeGateway{})

		paid, err := svc.VerifyPayment(ctx, &VerifyPaymentRequest{
			RazorpayOrderID:   "order_rzp_1",
			RazorpayPaymentID: "pay_9",
			RazorpaySignature: Sign("order_rzp_1", "pay_9", testSecret),
			OrderID:           "o1",
		})
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, paid.PaymentStatus)
		assert.Equal(t, order.OrderStatusConfirmed, paid.OrderStatus)
		assert.Equal(t, "pay_9", paid.RazorpayPaymentID)
	})

	t.Run("bad signature marks payment failed", func(t *testing.T) {
		o := razorpayOrder("o1")
		o.RazorpayOrderID = "order_rzp_1"
		orders := newFakeOrders(o)
		svc := newTestService(orders, &fakeGateway{})

		_, err := svc.VerifyPayment(ctx, &VerifyPaymentRequest{
			RazorpayOrderID:   "order_rzp_1",
			RazorpayPaymentID: "pay_9",
			RazorpaySignature: "deadbeef",
			OrderID:           "o1",
		})
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Equal(t, []string{"o1"}, orders.failed)
		assert.Equal(t, order.PaymentStatusFailed, orders.orders["o1"].PaymentStatus)
	})

	t.Run("gateway order must match", func(t *testing.T) {
		o := razorpayOrder("o1")
		o.RazorpayOrderID = "order_rzp_1"
		svc := newTestService(newFakeOrders(o), &fakeGateway{})

		_, err := svc.VerifyPayment(ctx, &VerifyPaymentRequest{
			RazorpayOrderID:   "order_rzp_other",
			RazorpayPaymentID: "pay_9",
			RazorpaySignature: Sign("order_rzp_other", "pay_9", testSecret),
			OrderID:           "o1",
		})
		assert.ErrorIs(t, err, ErrOrderMismatch)
	})

	t.Run("payment for one order cannot settle another", func(t *testing.T) {
		cheap := razorpayOrder("cheap")
		cheap.TotalAmount = 1
		expensive := razorpayOrder("expensive")
		expensive.TotalAmount = 50000
		cod := razorpayOrder("cod")
		cod.PaymentMethod = order.PaymentMethodCOD
		copied := razorpayOrder("copied")
		copied.RazorpayOrderID = "order_rzp_1"

		orders := newFakeOrders(cheap, expensive, cod, copied)
		svc := newTestService(orders, &fakeGateway{})

		_, err := svc.CreatePaymentOrder(ctx, "cheap")
		require.NoError(t, err)
		orders.owners["order_rzp_1"] = "cheap"

		tests := []struct {
			orderID string
			wantErr error
		}{
			{"expensive", ErrOrderMismatch},
			{"cod", ErrNotOnlinePayment},
			{"copied", ErrOrderMismatch},
		}
		for _, tt := range tests {
			_, err := svc.VerifyPayment(ctx, &VerifyPaymentRequest{
				RazorpayOrderID:   "order_rzp_1",
				RazorpayPaymentID: "pay_1",
				RazorpaySignature: Sign("order_rzp_1", "pay_1", testSecret),
				OrderID:           tt.orderID,
			})
			assert.ErrorIs(t, err, tt.wantErr, tt.orderID)
			assert.NotEqual(t, order.PaymentStatusPaid, orders.orders[tt.orderID].PaymentStatus, tt.orderID)
		}
		assert.Empty(t, orders.failed)

		paid, err := svc.VerifyPayment(ctx, &VerifyPaymentRequest{
			RazorpayOrderID:   "order_rzp_1",
			RazorpayPaymentID: "pay_1",
			RazorpaySignature: Sign("order_rzp_1", "pay_1", testSecret),
			OrderID:           "cheap",
		})
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, paid.PaymentStatus)
	})
}

func TestRazorpayClientCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("expected /v1/orders, got %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != testSecret {
			t.Errorf("unexpected basic auth %q %q", user, pass)
		}

		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RazorpayOrder{ID: "order_abc", Entity: "order", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer server.Close()

	client := NewRazorpayClient("rzp_test_key", testSecret, server.URL+"/v1/", 5*time.Second)
	rzp, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 149900, Currency: "INR", Receipt: "INV-2025-00002"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", rzp.ID)
	assert.Equal(t, int64(149900), rzp.Amount)
}

func TestRazorpayClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer server.Close()

	client := NewRazorpayClient("rzp_test_key", testSecret, server.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")

	unconfigured := NewRazorpayClient("", "", server.URL, time.Second)
	_, err = unconfigured.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorContains(t, err, "credentials not configured")
}
