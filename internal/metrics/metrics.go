package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PaymentsReconciled counts applied paid transitions by entry path
	PaymentsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_reconciled_total",
			Help: "Payments applied to invoices, by reconciliation path",
		},
		[]string{"path"},
	)

	// GatewayOrderErrors counts failed order creations at the payment gateway
	GatewayOrderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_order_errors_total",
			Help: "Failed payment gateway order creations",
		},
	)
)
