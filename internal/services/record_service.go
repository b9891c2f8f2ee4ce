package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/metrics"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/repository"
)

// RecordService handles the append-only health record log
type RecordService struct {
	records *repository.HealthRecordRepository
}

// NewRecordService creates a new record service
func NewRecordService(records *repository.HealthRecordRepository) *RecordService {
	return &RecordService{records: records}
}

// AddRecord appends a metric entry for the calling patient. The value
// encoding is fixed per record type and preserved for compatibility with
// persisted data.
func (s *RecordService) AddRecord(ctx context.Context, sess *models.Session, req *models.AddRecordRequest) (*models.HealthRecord, error) {
	if sess.Role != models.RolePatient {
		return nil, apperrors.Forbidden("only patients can add health records")
	}
	if !req.RecordType.Valid() {
		return nil, apperrors.Validation("unknown record type")
	}

	value, err := encodeValue(req)
	if err != nil {
		return nil, err
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	record := &models.HealthRecord{
		PatientID:  sess.ProfileID,
		RecordedAt: recordedAt,
		RecordType: req.RecordType,
		Value:      value,
		Notes:      req.Notes,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, apperrors.Internal(err)
	}

	metrics.HealthRecordsWritten.WithLabelValues(string(record.RecordType)).Inc()
	return record, nil
}

// ListRecords returns the calling patient's records, newest first,
// optionally filtered by type
func (s *RecordService) ListRecords(ctx context.Context, sess *models.Session, typeFilter *models.RecordType) ([]models.HealthRecord, error) {
	if sess.Role != models.RolePatient {
		return nil, apperrors.Forbidden("only patients can list health records")
	}
	if typeFilter != nil && !typeFilter.Valid() {
		return nil, apperrors.Validation("unknown record type filter")
	}

	records, err := s.records.ListByPatient(ctx, sess.ProfileID, typeFilter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

// encodeValue builds the persisted value string for a record request
func encodeValue(req *models.AddRecordRequest) (string, error) {
	switch req.RecordType {
	case models.RecordBloodPressure:
		if req.Systolic <= 0 || req.Diastolic <= 0 {
			return "", apperrors.Validation("systolic and diastolic readings are required")
		}
		return fmt.Sprintf("%d/%d", req.Systolic, req.Diastolic), nil
	case models.RecordExercise:
		if req.Activity == "" || req.Duration == "" {
			return "", apperrors.Validation("activity and duration are required")
		}
		return req.Activity + ": " + req.Duration, nil
	case models.RecordMedication:
		if req.Medication == "" || req.Dose == "" {
			return "", apperrors.Validation("medication name and dose are required")
		}
		return req.Medication + ": " + req.Dose, nil
	default:
		if req.Value == "" {
			return "", apperrors.Validation("value is required")
		}
		if _, err := strconv.ParseFloat(req.Value, 64); err != nil {
			return "", apperrors.Validation("value must be numeric")
		}
		return req.Value, nil
	}
}
