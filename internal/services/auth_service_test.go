package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/models"
)

func TestRegisterGeneratesDefaults(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	result, err := auth.Register(ctx, &models.RegisterRequest{
		Role:      models.RolePatient,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe", result.Username)
	assert.Equal(t, "patient123", result.GeneratedPassword)
	assert.Equal(t, models.RolePatient, result.User.Role)
	assert.Equal(t, "Jane Doe", result.User.DisplayName)

	// The generated credentials must authenticate
	sess, err := auth.Authenticate(ctx, "jane.doe", "patient123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, sess.UserID)
	assert.NotEqual(t, sess.ProfileID, sess.UserID)
}

func TestRegisterHospitalUsername(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)

	result, err := auth.Register(context.Background(), &models.RegisterRequest{
		Role:    models.RoleHospital,
		Name:    "Saint Mary General",
		Address: "2 Oak Ave",
		Phone:   "555-0101",
		Email:   "info@stmary.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "saintmarygeneral", result.Username)
	assert.Equal(t, "hospital123", result.GeneratedPassword)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Role:      models.RolePatient,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}

	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = auth.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeDuplicateUsername))

	// Exactly one row for the username, and no orphaned second profile
	var userCount, profileCount int64
	db.Model(&models.User{}).Where("username = ?", "jane.doe").Count(&userCount)
	db.Model(&models.PatientProfile{}).Count(&profileCount)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), profileCount)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	_, err := auth.Register(ctx, &models.RegisterRequest{
		Role:      models.RolePatient,
		FirstName: "NoLast",
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))

	_, err = auth.Register(ctx, &models.RegisterRequest{
		Role: models.RoleAdmin,
	})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	result, err := auth.Register(ctx, &models.RegisterRequest{
		Role:      models.RolePatient,
		FirstName: "Sam",
		LastName:  "Lee",
		Email:     "sam@example.com",
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Empty(t, result.GeneratedPassword)

	sess, err := auth.Authenticate(ctx, "sam.lee", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, models.RolePatient, sess.Role)
	assert.Equal(t, result.User.ID, sess.UserID)
	assert.NotEmpty(t, sess.Token)

	// Repeating the call is idempotent
	again, err := auth.Authenticate(ctx, "sam.lee", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, again.UserID)
	assert.Equal(t, sess.Role, again.Role)

	_, err = auth.Authenticate(ctx, "sam.lee", "wrong")
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidCredentials))

	_, err = auth.Authenticate(ctx, "nobody", "whatever")
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidCredentials))
}

func TestAuthenticateLockout(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	registerPatient(t, auth, "Lock", "Out")

	for i := 0; i < testMaxAttempts; i++ {
		_, err := auth.Authenticate(ctx, "lock.out", "wrong")
		assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidCredentials))
	}

	// Even the correct password is rejected while locked out
	_, err := auth.Authenticate(ctx, "lock.out", "patient123")
	assert.True(t, apperrors.IsType(err, apperrors.TypeTooManyAttempts))
}

func TestParseToken(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)

	sess := registerPatient(t, auth, "Tok", "En")

	parsed, err := auth.ParseToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, parsed.UserID)
	assert.Equal(t, sess.ProfileID, parsed.ProfileID)
	assert.Equal(t, sess.Role, parsed.Role)

	_, err = auth.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Re", "Set")
	admin := adminSession(t, db, auth)

	// Non-admin callers are rejected
	_, err := auth.ResetPassword(ctx, patient, "re.set")
	assert.True(t, apperrors.IsType(err, apperrors.TypeForbidden))

	newPassword, err := auth.ResetPassword(ctx, admin, "re.set")
	require.NoError(t, err)
	assert.Len(t, newPassword, 12)

	// Old password no longer works, new one does
	_, err = auth.Authenticate(ctx, "re.set", "patient123")
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidCredentials))

	_, err = auth.Authenticate(ctx, "re.set", newPassword)
	assert.NoError(t, err)

	_, err = auth.ResetPassword(ctx, admin, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))
}

func TestDeleteUserCascadesProfile(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Go", "Ner")
	admin := adminSession(t, db, auth)

	require.NoError(t, auth.DeleteUser(ctx, admin, patient.UserID))

	var userCount, profileCount int64
	db.Model(&models.User{}).Where("id = ?", patient.UserID).Count(&userCount)
	db.Model(&models.PatientProfile{}).Where("user_id = ?", patient.UserID).Count(&profileCount)
	assert.Zero(t, userCount)
	assert.Zero(t, profileCount)

	err := auth.DeleteUser(ctx, admin, patient.UserID)
	assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))
}

func TestListUsersAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	patient := registerPatient(t, auth, "Li", "St")
	admin := adminSession(t, db, auth)

	_, err := auth.ListUsers(ctx, patient)
	assert.True(t, apperrors.IsType(err, apperrors.TypeForbidden))

	users, err := auth.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
