package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the custom JWT claims carried by an access token
type SessionClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	ProfileID   uuid.UUID `json:"profile_id,omitempty"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	jwt.RegisteredClaims
}

// Session is the role-scoped caller identity resolved from a token and
// passed explicitly into every operation. ProfileID is the owning
// PatientProfile or HospitalProfile ID; uuid.Nil for admins.
type Session struct {
	UserID      uuid.UUID `json:"user_id"`
	ProfileID   uuid.UUID `json:"profile_id,omitempty"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token,omitempty"`
}
