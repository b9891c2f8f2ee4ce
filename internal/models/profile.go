package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientProfile holds patient demographics, owned 1:1 by a User
type PatientProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	DateOfBirth string    `gorm:"type:varchar(10)" json:"date_of_birth"` // ISO date
	Gender      string    `gorm:"type:varchar(20)" json:"gender"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// BeforeCreate hook
func (p *PatientProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullName returns the patient's display name
func (p *PatientProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HospitalProfile holds hospital contact details, owned 1:1 by a User
type HospitalProfile struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name"`
	Address string    `gorm:"type:text" json:"address"`
	Phone   string    `gorm:"type:varchar(50)" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (HospitalProfile) TableName() string {
	return "hospital_profiles"
}

// BeforeCreate hook
func (h *HospitalProfile) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HospitalSummary is the directory listing entry shown when booking
type HospitalSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
