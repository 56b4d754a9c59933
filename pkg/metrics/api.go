package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records certification lookups and order submissions.
type APIMetrics struct {
	lookupDuration *prometheus.HistogramVec
	lookups        *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	submittedLines *prometheus.CounterVec
}

// NewAPIMetrics registers the service metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	lookupDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cert_lookup_duration_seconds",
		Help:    "Duration of PSA certification lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cert_lookups_total",
		Help: "Certification lookups by outcome.",
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	submittedLines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_lines_total",
		Help: "Order line writes by result.",
	}, []string{"result"})
	reg.MustRegister(lookupDuration, lookups, submissions, submittedLines)
	return &APIMetrics{
		lookupDuration: lookupDuration,
		lookups:        lookups,
		submissions:    submissions,
		submittedLines: submittedLines,
	}
}

// ObserveLookupDuration records how long a certification lookup took.
// Source is "cache" or "api".
func (m *APIMetrics) ObserveLookupDuration(source string, duration time.Duration) {
	if m == nil || m.lookupDuration == nil {
		return
	}
	m.lookupDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncLookup increments the lookup counter for the given outcome
// ("match", "no_match", "error").
func (m *APIMetrics) IncLookup(outcome string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSubmission increments the submission counter for the given outcome
// ("success", "partial", "failure").
func (m *APIMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddSubmittedLines adds to the line counter for the given result
// ("succeeded", "failed").
func (m *APIMetrics) AddSubmittedLines(result string, count int) {
	if m == nil || m.submittedLines == nil || count <= 0 {
		return
	}
	m.submittedLines.WithLabelValues(normalizeLabel(result)).Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
