package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"gorm.io/gorm"
)

// AppointmentRepository handles appointment ledger database operations
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create appends a new appointment to the ledger
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment with its patient and hospital loaded
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Where("id = ?", id).
		First(&appt).Error; err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

// ListByPatient retrieves a patient's appointments
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, filter models.AppointmentFilter) ([]models.Appointment, error) {
	return r.list(ctx, "patient_id = ?", patientID, filter)
}

// ListByHospital retrieves a hospital's appointments
func (r *AppointmentRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID, filter models.AppointmentFilter) ([]models.Appointment, error) {
	return r.list(ctx, "hospital_id = ?", hospitalID, filter)
}

func (r *AppointmentRepository) list(ctx context.Context, cond string, id uuid.UUID, filter models.AppointmentFilter) ([]models.Appointment, error) {
	order := "scheduled_at DESC"
	if filter.View == models.ViewUpcoming {
		order = "scheduled_at ASC"
	}

	query := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Where(cond, id).
		Order(order)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var appts []models.Appointment
	if err := query.Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus persists a status transition
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return nil
}
