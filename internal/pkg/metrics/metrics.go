// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Registry holds every collector exposed on /metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	OrdersPlaced = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders placed by payment method.",
	}, []string{"payment_method"})

	OrderRevenue = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_revenue_rupees_total",
		Help:      "Grand total of placed orders in rupees.",
	})

	CouponApplications = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "coupon_applications_total",
		Help:      "Coupon application attempts by outcome.",
	}, []string{"outcome"})

	PaymentVerifications = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_verifications_total",
		Help:      "Razorpay signature verifications by outcome.",
	}, []string{"outcome"})

	EventPublishFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Order events that could not be published, by event type.",
	}, []string{"event"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Outcome maps a success flag to a metric label
func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
