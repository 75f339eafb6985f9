package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FacilitiesCreated     prometheus.Counter
	ReservationsCreated   prometheus.Counter
	ReservationsCancelled prometheus.Counter
	SessionsStarted       prometheus.Counter
	SessionsEnded         prometheus.Counter
	VehiclesRegistered    prometheus.Counter
	EventsDispatched      *prometheus.CounterVec
	HandlerFailures       *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		FacilitiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_facilities_created_total",
			Help: "Total number of parking facilities created",
		}),
		ReservationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_reservations_created_total",
			Help: "Total number of reservations created",
		}),
		ReservationsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_reservations_cancelled_total",
			Help: "Total number of reservations cancelled",
		}),
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_sessions_started_total",
			Help: "Total number of parking sessions started",
		}),
		SessionsEnded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_sessions_ended_total",
			Help: "Total number of parking sessions ended",
		}),
		VehiclesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkly_vehicles_registered_total",
			Help: "Total number of vehicles registered",
		}),
		EventsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parkly_events_dispatched_total",
			Help: "Outbox entries dispatched, by event name",
		}, []string{"event"}),
		HandlerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parkly_event_handler_failures_total",
			Help: "Consistency handler failures, by event name",
		}, []string{"event"}),
	}
}

// IncrementEventsDispatched counts one dispatched outbox entry.
func (m *Metrics) IncrementEventsDispatched(eventName string) {
	m.EventsDispatched.WithLabelValues(eventName).Inc()
}

// IncrementHandlerFailures counts one failed consistency handler run.
func (m *Metrics) IncrementHandlerFailures(eventName string) {
	m.HandlerFailures.WithLabelValues(eventName).Inc()
}
