package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts authentication attempts by outcome
	// (success, invalid_credentials, locked_out)
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_login_attempts_total",
		Help: "Authentication attempts by outcome",
	}, []string{"outcome"})

	// Registrations counts new identities by role
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_registrations_total",
		Help: "Registered identities by role",
	}, []string{"role"})

	// AppointmentsBooked counts booking operations
	AppointmentsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtrack_appointments_booked_total",
		Help: "Appointments booked",
	})

	// AppointmentTransitions counts status transitions by target state
	AppointmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_appointment_transitions_total",
		Help: "Appointment status transitions by target status",
	}, []string{"status"})

	// HealthRecordsWritten counts metric entries by record type
	HealthRecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtrack_health_records_total",
		Help: "Health records written by type",
	}, []string{"type"})
)
