package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/models"
)

func bookAt(t *testing.T, svc *AppointmentService, patient *models.Session, hospitalID uuid.UUID, when time.Time) *models.Appointment {
	t.Helper()
	appt, err := svc.Book(context.Background(), patient, &models.BookAppointmentRequest{
		HospitalID:  &hospitalID,
		ScheduledAt: when,
		Reason:      "checkup",
	})
	require.NoError(t, err)
	return appt
}

func TestBookAndList(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Pat", "One")
	hospital := registerHospital(t, auth, "City Hospital")

	appt := bookAt(t, svc, patient, hospital.ProfileID, time.Now().Add(24*time.Hour))
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, patient.ProfileID, appt.PatientID)

	// The booking shows up immediately in "my appointments"
	appts, err := svc.List(ctx, patient, models.AppointmentFilter{View: models.ViewUpcoming})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, appt.ID, appts[0].ID)
	assert.Equal(t, models.StatusScheduled, appts[0].Status)
	assert.Equal(t, "City Hospital", appts[0].HospitalName())

	// And on the hospital's schedule, with the patient's name resolved
	hospitalAppts, err := svc.List(ctx, hospital, models.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, hospitalAppts, 1)
	assert.Equal(t, "Pat One", hospitalAppts[0].PatientName())
}

func TestBookExternalHospital(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Ext", "Erna")

	appt, err := svc.Book(ctx, patient, &models.BookAppointmentRequest{
		ExternalHospitalInfo: "Rural Clinic, 9 Field Rd",
		ScheduledAt:          time.Now().Add(time.Hour),
		Reason:               "vaccination",
	})
	require.NoError(t, err)
	assert.True(t, appt.External())
	assert.Equal(t, "Rural Clinic, 9 Field Rd", appt.HospitalName())
}

func TestBookValidation(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Val", "Id")
	hospital := registerHospital(t, auth, "Mercy")

	// Neither managed hospital nor external info
	_, err := svc.Book(ctx, patient, &models.BookAppointmentRequest{
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "checkup",
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))

	// Missing reason
	hid := hospital.ProfileID
	_, err = svc.Book(ctx, patient, &models.BookAppointmentRequest{
		HospitalID:  &hid,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))

	// Unknown hospital
	unknown := uuid.New()
	_, err = svc.Book(ctx, patient, &models.BookAppointmentRequest{
		HospitalID:  &unknown,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "checkup",
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))

	// Hospitals cannot book
	_, err = svc.Book(ctx, hospital, &models.BookAppointmentRequest{
		HospitalID:  &hid,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "checkup",
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeForbidden))
}

func TestDoubleCancelRejected(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Can", "Cel")
	hospital := registerHospital(t, auth, "North Clinic")

	appt := bookAt(t, svc, patient, hospital.ProfileID, time.Now().Add(time.Hour))

	updated, err := svc.Transition(ctx, patient, appt.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	// Terminal states reject any further transition, including a repeat
	_, err = svc.Transition(ctx, patient, appt.ID, models.StatusCancelled)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidTransition))

	_, err = svc.Transition(ctx, hospital, appt.ID, models.StatusCompleted)
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidTransition))
}

func TestHospitalTransitions(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Tra", "Ns")
	hospital := registerHospital(t, auth, "South Clinic")
	other := registerHospital(t, auth, "West Clinic")

	for _, target := range []models.AppointmentStatus{
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusNoShow,
	} {
		appt := bookAt(t, svc, patient, hospital.ProfileID, time.Now().Add(time.Hour))

		// Another hospital cannot see or touch it
		_, err := svc.Transition(ctx, other, appt.ID, target)
		assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))

		updated, err := svc.Transition(ctx, hospital, appt.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}
}

func TestPatientMayOnlyCancelOwn(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Own", "Er")
	stranger := registerPatient(t, auth, "Str", "Anger")
	hospital := registerHospital(t, auth, "East Clinic")

	appt := bookAt(t, svc, patient, hospital.ProfileID, time.Now().Add(time.Hour))

	// Patients cannot complete, only cancel
	_, err := svc.Transition(ctx, patient, appt.ID, models.StatusCompleted)
	assert.True(t, apperrors.IsType(err, apperrors.TypeForbidden))

	// Another patient's appointment is invisible
	_, err = svc.Transition(ctx, stranger, appt.ID, models.StatusCancelled)
	assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))

	// Scheduled is not a valid transition target
	_, err = svc.Transition(ctx, patient, appt.ID, models.StatusScheduled)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}

func TestListOrderingAndStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Ord", "Er")
	hospital := registerHospital(t, auth, "Central")

	base := time.Now().Add(time.Hour).Truncate(time.Second)
	early := bookAt(t, svc, patient, hospital.ProfileID, base)
	late := bookAt(t, svc, patient, hospital.ProfileID, base.Add(48*time.Hour))

	upcoming, err := svc.List(ctx, patient, models.AppointmentFilter{View: models.ViewUpcoming})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, early.ID, upcoming[0].ID)
	assert.Equal(t, late.ID, upcoming[1].ID)

	history, err := svc.List(ctx, patient, models.AppointmentFilter{View: models.ViewHistory})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, late.ID, history[0].ID)

	_, err = svc.Transition(ctx, patient, early.ID, models.StatusCancelled)
	require.NoError(t, err)

	scheduled := models.StatusScheduled
	filtered, err := svc.List(ctx, patient, models.AppointmentFilter{Status: &scheduled})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, late.ID, filtered[0].ID)
}

func TestConcurrentSlotBookingsBothAccepted(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)

	patient := registerPatient(t, auth, "Slo", "T")
	hospital := registerHospital(t, auth, "Overlap General")

	// The ledger does no conflict detection: two bookings for the same
	// slot both land
	when := time.Now().Add(time.Hour)
	bookAt(t, svc, patient, hospital.ProfileID, when)
	bookAt(t, svc, patient, hospital.ProfileID, when)

	appts, err := svc.List(context.Background(), patient, models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, appts, 2)
}

func TestListHospitals(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	svc := newTestAppointmentService(t, db)

	registerHospital(t, auth, "Beta Clinic")
	registerHospital(t, auth, "Alpha Clinic")

	hospitals, err := svc.ListHospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, "Alpha Clinic", hospitals[0].Name)
	assert.Equal(t, "Beta Clinic", hospitals[1].Name)
}
