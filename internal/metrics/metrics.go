// Package metrics records preview lifecycle transitions for prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "previewdeck"

// Metrics holds the collectors for one engine instance.
type Metrics struct {
	registry *prometheus.Registry

	batches           *prometheus.CounterVec
	activeBatches     prometheus.Gauge
	undoDepth         prometheus.Gauge
	redoDepth         prometheus.Gauge
	conflictsResolved *prometheus.CounterVec
	applyRejected     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch lifecycle transitions by event.",
		}, []string{"event"}),
		activeBatches: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_batches",
			Help:      "Number of batches pending review.",
		}),
		undoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "undo_depth",
			Help:      "Number of applied batches eligible for undo.",
		}),
		redoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redo_depth",
			Help:      "Number of undone batches eligible for redo.",
		}),
		conflictsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_resolved_total",
			Help:      "Conflicts resolved by strategy.",
		}, []string{"strategy"}),
		applyRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_rejected_total",
			Help:      "Rejected apply attempts by reason.",
		}, []string{"reason"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Transition counts one lifecycle event such as "applied" or "undone".
func (m *Metrics) Transition(event string) {
	m.batches.WithLabelValues(event).Inc()
}

// Depths updates the collection gauges.
func (m *Metrics) Depths(active, undo, redo int) {
	m.activeBatches.Set(float64(active))
	m.undoDepth.Set(float64(undo))
	m.redoDepth.Set(float64(redo))
}

// ConflictResolved counts a resolution with the given strategy.
func (m *Metrics) ConflictResolved(strategy string) {
	m.conflictsResolved.WithLabelValues(strategy).Inc()
}

// ApplyRejected counts an apply refused for reason.
func (m *Metrics) ApplyRejected(reason string) {
	m.applyRejected.WithLabelValues(reason).Inc()
}
