package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	CouponApplications.WithLabelValues(Outcome(true)).Inc()
	OrdersPlaced.WithLabelValues("COD").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `storefront_coupon_applications_total{outcome="success"}`)
	assert.Contains(t, body, `storefront_orders_placed_total{payment_method="COD"}`)
	assert.Contains(t, body, "go_goroutines")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(true))
	assert.Equal(t, "failure", Outcome(false))
}
