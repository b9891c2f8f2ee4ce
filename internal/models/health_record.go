package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordType represents the kind of health metric recorded
type RecordType string

const (
	RecordBloodPressure RecordType = "BloodPressure"
	RecordHeartRate     RecordType = "HeartRate"
	RecordBloodSugar    RecordType = "BloodSugar"
	RecordWeight        RecordType = "Weight"
	RecordTemperature   RecordType = "Temperature"
	RecordExercise      RecordType = "Exercise"
	RecordMedication    RecordType = "Medication"
)

// Valid reports whether the record type is known
func (t RecordType) Valid() bool {
	switch t {
	case RecordBloodPressure, RecordHeartRate, RecordBloodSugar,
		RecordWeight, RecordTemperature, RecordExercise, RecordMedication:
		return true
	}
	return false
}

// HealthRecord is one timestamped patient-entered metric observation.
// Records are immutable once written and are never deleted. The value
// encoding is fixed per record type for compatibility with persisted data:
// "systolic/diastolic" for blood pressure, "activity: duration" for
// exercise, "name: dose" for medication, a plain numeric string otherwise.
type HealthRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	RecordedAt time.Time  `gorm:"not null;index" json:"recorded_at"`
	RecordType RecordType `gorm:"type:varchar(50);not null;index" json:"record_type"`
	Value      string     `gorm:"type:varchar(255);not null" json:"value"`
	Notes      string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (HealthRecord) TableName() string {
	return "health_records"
}

// BeforeCreate hook
func (r *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AddRecordRequest represents a patient adding a metric entry. Which fields
// are required depends on the record type.
type AddRecordRequest struct {
	RecordType RecordType `json:"record_type"`
	RecordedAt time.Time  `json:"recorded_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`

	// Numeric types (heart rate, blood sugar, weight, temperature)
	Value string `json:"value,omitempty"`

	// Blood pressure
	Systolic  int `json:"systolic,omitempty"`
	Diastolic int `json:"diastolic,omitempty"`

	// Exercise
	Activity string `json:"activity,omitempty"`
	Duration string `json:"duration,omitempty"`

	// Medication
	Medication string `json:"medication,omitempty"`
	Dose       string `json:"dose,omitempty"`
}
