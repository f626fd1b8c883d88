package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type Provider interface {
	IncConversions(status string)
	ObserveLookupDuration(duration time.Duration)
	IncPersistenceErrors(op string)
	SetHistorySize(count int)
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	Handler() http.Handler
}

type PrometheusProvider struct {
	registry          *prometheus.Registry
	conversions       *prometheus.CounterVec
	lookupDuration    prometheus.Histogram
	persistenceErrors *prometheus.CounterVec
	historySize       prometheus.Gauge
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New returns a provider with its own registry, or a no-op one when disabled.
func New(enabled bool) Provider {
	if !enabled {
		return Noop()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusProvider{
		registry: registry,

		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "currency_calc_conversions_total",
			Help: "Total number of conversions by outcome",
		}, []string{"status"}),

		lookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "currency_calc_rate_lookup_duration_seconds",
			Help:    "Duration of rate lookups in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "currency_calc_persistence_errors_total",
			Help: "Total number of swallowed history storage errors",
		}, []string{"op"}),

		historySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "currency_calc_history_entries",
			Help: "Number of entries in the history log after the last write",
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "currency_calc_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "currency_calc_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *PrometheusProvider) IncConversions(status string) {
	m.conversions.WithLabelValues(status).Inc()
}

func (m *PrometheusProvider) ObserveLookupDuration(duration time.Duration) {
	m.lookupDuration.Observe(duration.Seconds())
}

func (m *PrometheusProvider) IncPersistenceErrors(op string) {
	m.persistenceErrors.WithLabelValues(op).Inc()
}

func (m *PrometheusProvider) SetHistorySize(count int) {
	m.historySize.Set(float64(count))
}

func (m *PrometheusProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *PrometheusProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func Noop() Provider {
	return &noopMetrics{}
}

func (n *noopMetrics) IncConversions(_ string)                          {}
func (n *noopMetrics) ObserveLookupDuration(_ time.Duration)            {}
func (n *noopMetrics) IncPersistenceErrors(_ string)                    {}
func (n *noopMetrics) SetHistorySize(_ int)                             {}
func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }
