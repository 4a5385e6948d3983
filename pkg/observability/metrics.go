package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records keyword execution counters and latencies for a remote
// bridge. A nil *Metrics is valid and records nothing, so callers never
// have to branch on whether metrics are enabled.
type Metrics struct {
	keywordRuns     *prometheus.CounterVec
	keywordDuration *prometheus.HistogramVec
	importAttempts  *prometheus.CounterVec
}

// NewMetrics builds the metric vectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		keywordRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remoterobot_keyword_runs_total",
				Help: "Total number of keyword executions by status",
			},
			[]string{"library", "keyword", "status"},
		),
		keywordDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "remoterobot_keyword_duration_seconds",
				Help: "Duration of keyword executions",
			},
			[]string{"library", "keyword"},
		),
		importAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remoterobot_import_attempts_total",
				Help: "Total number of remote library import attempts",
			},
			[]string{"library", "outcome"},
		),
	}
	reg.MustRegister(m.keywordRuns, m.keywordDuration, m.importAttempts)
	return m
}

// ObserveKeyword records one keyword execution.
func (m *Metrics) ObserveKeyword(library, keyword, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.keywordRuns.WithLabelValues(library, keyword, status).Inc()
	m.keywordDuration.WithLabelValues(library, keyword).Observe(elapsed.Seconds())
}

// ObserveImport records one remote import attempt.
func (m *Metrics) ObserveImport(library, outcome string) {
	if m == nil {
		return
	}
	m.importAttempts.WithLabelValues(library, outcome).Inc()
}
