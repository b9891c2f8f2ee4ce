package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/metrics"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/repository"
	"gorm.io/gorm"
)

// AppointmentService handles the booking ledger and its status lifecycle
type AppointmentService struct {
	appointments *repository.AppointmentRepository
	profiles     *repository.ProfileRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointments *repository.AppointmentRepository,
	profiles *repository.ProfileRepository,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		profiles:     profiles,
	}
}

// Book creates a Scheduled appointment for the calling patient, against
// either a managed hospital or an external one described by free text.
// Overlapping bookings for the same slot are accepted; the ledger does no
// conflict detection.
func (s *AppointmentService) Book(ctx context.Context, sess *models.Session, req *models.BookAppointmentRequest) (*models.Appointment, error) {
	if sess.Role != models.RolePatient {
		return nil, apperrors.Forbidden("only patients can book appointments")
	}
	if req.ScheduledAt.IsZero() {
		return nil, apperrors.Validation("scheduled time is required")
	}
	if req.Reason == "" {
		return nil, apperrors.Validation("reason is required")
	}
	if req.HospitalID == nil && req.ExternalHospitalInfo == "" {
		return nil, apperrors.Validation("either a hospital or external hospital info is required")
	}

	appt := &models.Appointment{
		PatientID:   sess.ProfileID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		Status:      models.StatusScheduled,
	}

	if req.HospitalID != nil {
		if _, err := s.profiles.GetHospitalByID(ctx, *req.HospitalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("hospital")
			}
			return nil, apperrors.Internal(err)
		}
		appt.HospitalID = req.HospitalID
	} else {
		appt.ExternalHospitalInfo = req.ExternalHospitalInfo
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, apperrors.Internal(err)
	}

	metrics.AppointmentsBooked.Inc()
	return appt, nil
}

// Transition applies a status change, enforcing both the state machine and
// the caller's role. Patients may only cancel their own appointments;
// hospitals may complete, cancel, or mark no-show on appointments bound to
// them. Terminal states admit no further transitions.
func (s *AppointmentService) Transition(ctx context.Context, sess *models.Session, apptID uuid.UUID, next models.AppointmentStatus) (*models.Appointment, error) {
	if !next.Valid() || next == models.StatusScheduled {
		return nil, apperrors.Validation("target status must be Completed, Cancelled, or NoShow")
	}

	appt, err := s.appointments.GetByID(ctx, apptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, apperrors.Internal(err)
	}

	switch sess.Role {
	case models.RolePatient:
		if appt.PatientID != sess.ProfileID {
			return nil, apperrors.NotFound("appointment")
		}
		if next != models.StatusCancelled {
			return nil, apperrors.Forbidden("patients may only cancel appointments")
		}
	case models.RoleHospital:
		if appt.HospitalID == nil || *appt.HospitalID != sess.ProfileID {
			return nil, apperrors.NotFound("appointment")
		}
	default:
		return nil, apperrors.Forbidden("role cannot modify appointments")
	}

	if !appt.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(string(appt.Status), string(next))
	}

	if err := s.appointments.UpdateStatus(ctx, appt.ID, next); err != nil {
		return nil, apperrors.Internal(err)
	}
	appt.Status = next

	metrics.AppointmentTransitions.WithLabelValues(string(next)).Inc()
	return appt, nil
}

// List returns the caller's appointments: the patient's own bookings for
// patients, the hospital's schedule for hospitals.
func (s *AppointmentService) List(ctx context.Context, sess *models.Session, filter models.AppointmentFilter) ([]models.Appointment, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.Validation("unknown status filter")
	}

	var (
		appts []models.Appointment
		err   error
	)
	switch sess.Role {
	case models.RolePatient:
		appts, err = s.appointments.ListByPatient(ctx, sess.ProfileID, filter)
	case models.RoleHospital:
		appts, err = s.appointments.ListByHospital(ctx, sess.ProfileID, filter)
	default:
		return nil, apperrors.Forbidden("role has no appointment listing")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appts, nil
}

// ListHospitals returns the managed hospital directory for booking
func (s *AppointmentService) ListHospitals(ctx context.Context) ([]models.HospitalSummary, error) {
	hospitals, err := s.profiles.ListHospitals(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summaries := make([]models.HospitalSummary, 0, len(hospitals))
	for _, h := range hospitals {
		summaries = append(summaries, models.HospitalSummary{ID: h.ID, Name: h.Name})
	}
	return summaries, nil
}
