package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_quotes_computed_total",
			Help: "Total number of quotes priced, by service and whether they were saved",
		},
		[]string{"service", "saved"},
	)

	QuoteTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leads_quote_total_gbp",
			Help:    "Quoted totals in GBP",
			Buckets: []float64{80, 120, 160, 200, 250, 300, 400, 600, 1000},
		},
		[]string{"service"},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_bookings_created_total",
			Help: "Total number of booking requests received",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_notifications_total",
			Help: "Notifications attempted, by channel and result",
		},
		[]string{"channel", "result"},
	)

	CRMForwards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_crm_forwards_total",
			Help: "CRM forwarding attempts, by operation and result",
		},
		[]string{"operation", "result"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leads_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// Result turns an error into a metric label value
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
