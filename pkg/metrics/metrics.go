package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospital_crm_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hospital_crm_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Booking outcomes: created, conflict, outside_availability, locked, error
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospital_crm_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hospital_crm_appointment_cancellations_total",
			Help: "Appointments cancelled",
		},
	)

	SlotLockFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hospital_crm_slot_lock_failures_total",
			Help: "Slot lock calls that fell back to the database guard",
		},
	)

	SnapshotDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hospital_crm_availability_snapshot_duration_seconds",
			Help:    "Time to build availability snapshots",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

func RecordHTTPRequest(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation() {
	CancellationsTotal.Inc()
}

func RecordSlotLockFailure() {
	SlotLockFailures.Inc()
}

// ObserveSnapshot records how long a bulk or single snapshot took.
func ObserveSnapshot(mode string, seconds float64) {
	SnapshotDuration.WithLabelValues(mode).Observe(seconds)
}
