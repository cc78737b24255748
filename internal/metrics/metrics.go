package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agenda_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agenda_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Appointments
	AppointmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agenda_appointments_created_total",
			Help: "Appointments booked.",
		},
	)

	AppointmentsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agenda_appointments_deleted_total",
			Help: "Appointments removed.",
		},
	)

	SchedulingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agenda_scheduling_conflicts_total",
			Help: "Bookings rejected because the slot was taken.",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agenda_status_transitions_total",
			Help: "Appointment status changes.",
		},
		[]string{"from", "to"},
	)

	// Audit / cache
	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agenda_audit_events_dropped_total",
			Help: "Audit events dropped because the queue was full.",
		},
	)

	CalendarCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agenda_calendar_cache_lookups_total",
			Help: "Calendar cache lookups by result.",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		CalendarCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CalendarCacheLookups.WithLabelValues("miss").Inc()
}
