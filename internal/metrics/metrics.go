package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service counters. A nil *Metrics is valid and records
// nothing, which keeps unit tests free of registry setup.
type Metrics struct {
	checks          *prometheus.CounterVec
	resets          *prometheus.CounterVec
	visits          *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	wsConnections   prometheus.Gauge
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitaena",
			Name:      "exercise_checks_total",
			Help:      "Checked responses by exercise type and verdict.",
		}, []string{"type", "verdict"}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitaena",
			Name:      "exercise_resets_total",
			Help:      "Exercise resets by scope (exercise or topic).",
		}, []string{"scope"}),
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitaena",
			Name:      "exercise_visits_total",
			Help:      "Exercise visits by topic.",
		}, []string{"topic"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitaena",
			Name:      "progress_storage_failures_total",
			Help:      "Progress backend failures by operation.",
		}, []string{"op"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vitaena",
			Name:      "progress_ws_connections",
			Help:      "Open progress websocket connections.",
		}),
	}
	reg.MustRegister(m.checks, m.resets, m.visits, m.storageFailures, m.wsConnections)
	return m
}

// Check counts one graded response.
func (m *Metrics) Check(exerciseType string, correct bool) {
	if m == nil {
		return
	}
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	m.checks.WithLabelValues(exerciseType, verdict).Inc()
}

// Reset counts one reset.
func (m *Metrics) Reset(scope string) {
	if m == nil {
		return
	}
	m.resets.WithLabelValues(scope).Inc()
}

// Visit counts one exercise visit.
func (m *Metrics) Visit(topic string) {
	if m == nil {
		return
	}
	m.visits.WithLabelValues(topic).Inc()
}

// StorageFailure counts one failed backend operation.
func (m *Metrics) StorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageFailures.WithLabelValues(op).Inc()
}

// ConnectionOpened and ConnectionClosed track websocket subscribers.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}
