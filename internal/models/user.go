package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents an account role
type Role string

const (
	RolePatient  Role = "patient"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticable account. The role is fixed at
// registration and never changes afterwards.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	DisplayName  string    `gorm:"type:varchar(255);not null" json:"display_name"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RegisterRequest represents a registration request for either role.
// Username and password are optional; defaults are generated when absent.
type RegisterRequest struct {
	Role     Role   `json:"role"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email"`

	// Patient fields
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`

	// Hospital fields
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
