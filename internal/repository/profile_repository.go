package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository handles patient and hospital profile database operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

// CreatePatient creates a new patient profile
func (r *ProfileRepository) CreatePatient(ctx context.Context, profile *models.PatientProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create patient profile: %w", err)
	}
	return nil
}

// CreateHospital creates a new hospital profile
func (r *ProfileRepository) CreateHospital(ctx context.Context, profile *models.HospitalProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create hospital profile: %w", err)
	}
	return nil
}

// GetPatientByUserID retrieves the patient profile owned by a user
func (r *ProfileRepository) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*models.PatientProfile, error) {
	var profile models.PatientProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &profile, nil
}

// GetHospitalByUserID retrieves the hospital profile owned by a user
func (r *ProfileRepository) GetHospitalByUserID(ctx context.Context, userID uuid.UUID) (*models.HospitalProfile, error) {
	var profile models.HospitalProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to get hospital profile: %w", err)
	}
	return &profile, nil
}

// GetHospitalByID retrieves a hospital profile by its own ID
func (r *ProfileRepository) GetHospitalByID(ctx context.Context, id uuid.UUID) (*models.HospitalProfile, error) {
	var profile models.HospitalProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to get hospital profile: %w", err)
	}
	return &profile, nil
}

// ListHospitals retrieves the hospital directory, ordered by name
func (r *ProfileRepository) ListHospitals(ctx context.Context) ([]models.HospitalProfile, error) {
	var hospitals []models.HospitalProfile
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&hospitals).Error; err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

// DeleteByUserID removes the profile rows owned by a user, for either role
func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.PatientProfile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete patient profile: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Delete(&models.HospitalProfile{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete hospital profile: %w", err)
	}
	return nil
}
