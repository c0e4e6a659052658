package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kislikjeka/txfeed/internal/platform/txrow"
)

// Metrics holds all Prometheus collectors for the service.
// It implements txlist.Recorder and nats.PublishRecorder.
type Metrics struct {
	// Feed metrics
	rowsBoundTotal          *prometheus.CounterVec
	clicksTotal             *prometheus.CounterVec
	preferenceFailuresTotal prometheus.Counter

	// HTTP metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	// NATS metrics
	natsMessagesPublished *prometheus.CounterVec
	natsPublishDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rowsBoundTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txfeed_rows_bound_total",
				Help: "Total number of transaction rows bound, by row state",
			},
			[]string{"state"},
		),
		clicksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txfeed_clicks_total",
				Help: "Total number of row clicks, by outcome",
			},
			[]string{"status"},
		),
		preferenceFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "txfeed_preference_read_failures_total",
				Help: "Total number of preference reads that fell back to defaults",
			},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		natsMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_messages_published_total",
				Help: "Total number of NATS messages published",
			},
			[]string{"subject_prefix", "status"},
		),
		natsPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nats_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"subject_prefix"},
		),
	}
}

// RecordRowBound counts a bound row
func (m *Metrics) RecordRowBound(state txrow.RowState) {
	m.rowsBoundTotal.WithLabelValues(string(state)).Inc()
}

// RecordClick counts a click by outcome
func (m *Metrics) RecordClick(status string) {
	m.clicksTotal.WithLabelValues(status).Inc()
}

// RecordPreferenceFailure counts a preference read that fell back to defaults
func (m *Metrics) RecordPreferenceFailure() {
	m.preferenceFailuresTotal.Inc()
}

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// RecordNATSPublish records a NATS publish operation. Subjects are
// labelled by prefix to keep user IDs out of label values.
func (m *Metrics) RecordNATSPublish(subject, status string, duration float64) {
	prefix := subjectPrefix(subject)
	m.natsMessagesPublished.WithLabelValues(prefix, status).Inc()
	m.natsPublishDuration.WithLabelValues(prefix).Observe(duration)
}

func subjectPrefix(subject string) string {
	for i := len(subject) - 1; i >= 0; i-- {
		if subject[i] == '.' {
			return subject[:i]
		}
	}
	return subject
}

func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
