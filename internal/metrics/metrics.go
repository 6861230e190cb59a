// Package metrics exports dispatch outcomes to Prometheus.
//
// Observer is a core.Observer and a prometheus.Collector: attach it to a
// World with world.WithObserver and register it with a registry.
// WorldCollector reports the size of a World on scrape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/manikin/internal/core"
)

const namespace = "manikin"

// Observer counts dispatches by message and outcome, contract errors by
// kind, and the nesting depth of every dispatch.
type Observer struct {
	dispatches *prometheus.CounterVec
	errors     *prometheus.CounterVec
	depth      prometheus.Histogram
}

// NewObserver creates an unregistered Observer.
func NewObserver() *Observer {
	return &Observer{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "dispatches_total",
			Help:      "Finished dispatches by message and outcome.",
		}, []string{"message", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "contract_errors_total",
			Help:      "Failed dispatches by contract error kind.",
		}, []string{"kind"}),
		depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "dispatch_depth",
			Help:      "Nesting depth of dispatches; 0 is a top-level send.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
}

// Observe implements core.Observer.
func (o *Observer) Observe(ev core.Event) {
	o.dispatches.WithLabelValues(ev.Message, string(ev.Outcome)).Inc()
	o.depth.Observe(float64(ev.Depth))
	if kind, ok := core.KindOf(ev.Err); ok {
		o.errors.WithLabelValues(string(kind)).Inc()
	}
}

// Describe implements prometheus.Collector.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	o.dispatches.Describe(ch)
	o.errors.Describe(ch)
	o.depth.Describe(ch)
}

// Collect implements prometheus.Collector.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	o.dispatches.Collect(ch)
	o.errors.Collect(ch)
	o.depth.Collect(ch)
}
