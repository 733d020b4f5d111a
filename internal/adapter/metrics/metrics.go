package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PortalMetrics holds all Prometheus metrics for the portal service.
type PortalMetrics struct {
	DialogsOpened      *prometheus.CounterVec
	DialogSubmissions  *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	DialogsOpen        prometheus.Gauge
	SimulatedCalls     *prometheus.CounterVec
	Notifications      prometheus.Counter
}

// NewPortalMetrics initializes and registers the Prometheus metrics with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	factory := promauto.With(reg)
	return &PortalMetrics{
		DialogsOpened: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venue_portal",
			Subsystem: "dialogs",
			Name:      "opened_total",
			Help:      "Total number of user dialogs opened by mode.",
		}, []string{"mode"}), // mode: create, edit
		DialogSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venue_portal",
			Subsystem: "dialogs",
			Name:      "submissions_total",
			Help:      "Total number of dialog submissions by mode and outcome.",
		}, []string{"mode", "outcome"}), // outcome: accepted, invalid, callback_error
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venue_portal",
			Subsystem: "dialogs",
			Name:      "validation_failures_total",
			Help:      "Total number of field validation failures by field.",
		}, []string{"field"}),
		DialogsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "venue_portal",
			Subsystem: "dialogs",
			Name:      "open",
			Help:      "Number of dialogs currently open.",
		}),
		SimulatedCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venue_portal",
			Subsystem: "backend",
			Name:      "simulated_calls_total",
			Help:      "Total number of simulated backend calls by operation.",
		}, []string{"operation"}), // operation: profile_save, login
		Notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "venue_portal",
			Subsystem: "notifications",
			Name:      "published_total",
			Help:      "Total number of header notifications published.",
		}),
	}
}
