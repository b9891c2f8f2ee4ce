package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"gorm.io/gorm"
)

// HealthRecordRepository handles health record database operations. The log
// is append-only: there is no update or delete path.
type HealthRecordRepository struct {
	db *gorm.DB
}

// NewHealthRecordRepository creates a new health record repository
func NewHealthRecordRepository(db *gorm.DB) *HealthRecordRepository {
	return &HealthRecordRepository{db: db}
}

// Create appends a new record to the log
func (r *HealthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create health record: %w", err)
	}
	return nil
}

// ListByPatient retrieves a patient's records, newest first, optionally
// filtered by record type
func (r *HealthRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, typeFilter *models.RecordType) ([]models.HealthRecord, error) {
	query := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC")

	if typeFilter != nil {
		query = query.Where("record_type = ?", *typeFilter)
	}

	var records []models.HealthRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	return records, nil
}
