package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Donation sources
const (
	SourceManual        = "manual"
	SourcePaymentIntent = "payment_intent"
	SourceCheckout      = "checkout_session"
)

// Metrics owns a private registry so tests can build as many as they like
type Metrics struct {
	registry *prometheus.Registry

	httpRequestTotal    *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	donationsTotal      *prometheus.CounterVec
	donationAmountTotal *prometheus.CounterVec
	webhookEventsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of http request",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		donationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_recorded_total",
				Help: "Donations written, by source",
			},
			[]string{"source"},
		),
		donationAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donations_amount_total",
				Help: "Sum of donated amounts in major currency units, by source",
			},
			[]string{"source"},
		),
		webhookEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_events_total",
				Help: "Payment webhook events, by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestTotal.WithLabelValues(method, path, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (m *Metrics) DonationRecorded(source string, amount float64) {
	m.donationsTotal.WithLabelValues(source).Inc()
	if amount > 0 {
		m.donationAmountTotal.WithLabelValues(source).Add(amount)
	}
}

func (m *Metrics) WebhookEvent(eventType, outcome string) {
	m.webhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
