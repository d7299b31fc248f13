package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the credit analysis module.
type Metrics struct {
	// Analysis outcomes by decision and risk tier
	AnalysisOutcome *prometheus.CounterVec

	// Composite score distribution
	ScoreDistribution prometheus.Histogram

	// Full analysis latency
	AnalyzeLatency prometheus.Histogram

	// Cache effectiveness for repeated analyses
	CacheEvents *prometheus.CounterVec
}

// New creates a Metrics instance with all credit module metrics registered.
func New() *Metrics {
	return &Metrics{
		AnalysisOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "crivo_credit_analysis_total",
			Help: "Total credit analyses by decision and risk tier",
		}, []string{"decision", "risk"}),

		ScoreDistribution: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crivo_credit_score",
			Help:    "Distribution of composite credit scores",
			Buckets: prometheus.LinearBuckets(0, 100, 11),
		}),

		AnalyzeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crivo_credit_analyze_duration_seconds",
			Help:    "Duration of full credit analysis including cache lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		CacheEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "crivo_credit_cache_events_total",
			Help: "Analysis cache hits and misses",
		}, []string{"result"}),
	}
}

// IncrementOutcome records an analysis decision.
func (m *Metrics) IncrementOutcome(decision, risk string) {
	if m != nil {
		m.AnalysisOutcome.WithLabelValues(decision, risk).Inc()
	}
}

// ObserveScore records the composite score.
func (m *Metrics) ObserveScore(score int) {
	if m != nil {
		m.ScoreDistribution.Observe(float64(score))
	}
}

// ObserveAnalyzeLatency records the total analysis duration.
func (m *Metrics) ObserveAnalyzeLatency(d time.Duration) {
	if m != nil {
		m.AnalyzeLatency.Observe(d.Seconds())
	}
}

// IncrementCache records a cache hit or miss.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheEvents.WithLabelValues(result).Inc()
	}
}
