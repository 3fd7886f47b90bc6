// Package metrics provides Prometheus instrumentation for the scoring
// engine and its HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cortex"

// Manager holds the service's Prometheus collectors. One Manager is created
// at startup and shared; all collectors are safe for concurrent use.
type Manager struct {
	registry *prometheus.Registry

	// Engine metrics
	ComputePasses   prometheus.Counter
	SnapshotCommits *prometheus.CounterVec // label: action (commit|correct|skip)
	SkillUpdates    prometheus.Counter
	RecoveryGains   prometheus.Counter

	// Event recorder metrics
	EventsRecorded  *prometheus.CounterVec // label: type
	EventsDebounced prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec // labels: method, path, status
}

// NewManager creates a Manager with its own registry, so tests can create
// independent instances without duplicate-registration panics.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,

		ComputePasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_passes_total",
			Help:      "Number of full metric computation passes.",
		}),
		SnapshotCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_transitions_total",
			Help:      "Daily snapshot transitions by action.",
		}, []string{"action"}),
		SkillUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skill_updates_total",
			Help:      "Completed training exercises folded into skill states.",
		}),
		RecoveryGains: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_gains_total",
			Help:      "Restorative sessions applied to recovery states.",
		}),
		EventsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intraday_events_recorded_total",
			Help:      "Intraday events appended, by event type.",
		}, []string{"type"}),
		EventsDebounced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intraday_events_debounced_total",
			Help:      "Intraday events suppressed by the debounce window.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status class.",
		}, []string{"method", "path", "status"}),
	}
}

// Handler returns the /metrics endpoint handler for this Manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
