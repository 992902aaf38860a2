// Package metrics exposes Prometheus collectors for lookups, udder
// transitions and feed loading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"herdcheck/internal/core"
	"herdcheck/pkg/domain"
)

// Metrics implements core.Observer.
type Metrics struct {
	// Lookups by outcome (invalid_id, not_found, four_udders, ...)
	Lookups *prometheus.CounterVec

	// Udder state machine transitions by kind
	Transitions *prometheus.CounterVec

	// Feed rows by result: loaded or skipped
	FeedRows *prometheus.CounterVec

	CheckLatency prometheus.Histogram
}

var _ core.Observer = (*Metrics)(nil)

// New registers all collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herdcheck_lookups_total",
			Help: "Total record checks by outcome",
		}, []string{"outcome"}),

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herdcheck_transitions_total",
			Help: "Total udder transitions by kind",
		}, []string{"kind"}),

		FeedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herdcheck_feed_rows_total",
			Help: "Feed rows processed at load time by result",
		}, []string{"result"}),

		CheckLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "herdcheck_check_duration_seconds",
			Help:    "Duration of a single record check",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// ObserveLookup records a check outcome and how long it took.
func (m *Metrics) ObserveLookup(outcome core.Outcome, d time.Duration) {
	if m != nil {
		m.Lookups.WithLabelValues(string(outcome)).Inc()
		m.CheckLatency.Observe(d.Seconds())
	}
}

// ObserveTransition records one udder machine step.
func (m *Metrics) ObserveTransition(kind domain.TransitionKind) {
	if m != nil {
		m.Transitions.WithLabelValues(string(kind)).Inc()
	}
}

// ObserveFeedRows records the result of a registry load.
func (m *Metrics) ObserveFeedRows(loaded, skipped int) {
	if m != nil {
		m.FeedRows.WithLabelValues("loaded").Add(float64(loaded))
		m.FeedRows.WithLabelValues("skipped").Add(float64(skipped))
	}
}
