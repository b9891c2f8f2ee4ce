package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
	StatusNoShow    AppointmentStatus = "NoShow"
)

// Valid reports whether the status is one of the known states
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo reports whether the state machine allows moving to next.
// Scheduled is the only non-terminal state; everything else is final.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != StatusScheduled {
		return false
	}
	return next.Terminal()
}

// Appointment links a patient to a hospital for a scheduled time. A nil
// HospitalID marks a booking against an external, unmanaged hospital, in
// which case ExternalHospitalInfo carries the free-text details.
// Appointments are never physically deleted.
type Appointment struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	HospitalID           *uuid.UUID        `gorm:"type:uuid;index" json:"hospital_id,omitempty"`
	ScheduledAt          time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Reason               string            `gorm:"type:text" json:"reason"`
	Status               AppointmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	ExternalHospitalInfo string            `gorm:"type:text" json:"external_hospital_info,omitempty"`

	Patient  PatientProfile   `gorm:"foreignKey:PatientID" json:"-"`
	Hospital *HospitalProfile `gorm:"foreignKey:HospitalID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate hook
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// External reports whether the booking targets an unmanaged hospital
func (a *Appointment) External() bool {
	return a.HospitalID == nil
}

// HospitalName returns the managed hospital's name, or the external info
func (a *Appointment) HospitalName() string {
	if a.Hospital != nil {
		return a.Hospital.Name
	}
	return a.ExternalHospitalInfo
}

// PatientName returns the booking patient's full name
func (a *Appointment) PatientName() string {
	return a.Patient.FullName()
}

// BookAppointmentRequest represents a patient booking action
type BookAppointmentRequest struct {
	HospitalID           *uuid.UUID `json:"hospital_id,omitempty"`
	ExternalHospitalInfo string     `json:"external_hospital_info,omitempty"`
	ScheduledAt          time.Time  `json:"scheduled_at"`
	Reason               string     `json:"reason"`
}

// TransitionRequest represents a status change request
type TransitionRequest struct {
	Status AppointmentStatus `json:"status"`
}

// ListView selects the ordering of an appointment listing
type ListView string

const (
	ViewUpcoming ListView = "upcoming" // ascending by scheduled time
	ViewHistory  ListView = "history"  // descending by scheduled time
)

// AppointmentFilter narrows appointment listings
type AppointmentFilter struct {
	Status *AppointmentStatus
	View   ListView
}
