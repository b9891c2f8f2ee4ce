package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/trackmyhealth/healthtrack/internal/cache"
	"github.com/trackmyhealth/healthtrack/internal/database"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret     = "test-secret"
	testMaxAttempts   = 3
	testLockoutWindow = time.Minute
)

// setupTestDB creates an in-memory SQLite database with all models migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "failed to open sqlite test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	return db
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(
		db,
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		cache.NewMemoryCache(),
		testJWTSecret,
		time.Hour,
		testMaxAttempts,
		testLockoutWindow,
	)
}

func newTestAppointmentService(t *testing.T, db *gorm.DB) *AppointmentService {
	t.Helper()
	return NewAppointmentService(
		repository.NewAppointmentRepository(db),
		repository.NewProfileRepository(db),
	)
}

func newTestRecordService(t *testing.T, db *gorm.DB) *RecordService {
	t.Helper()
	return NewRecordService(repository.NewHealthRecordRepository(db))
}

// registerPatient registers a patient with generated credentials and logs
// them in
func registerPatient(t *testing.T, auth *AuthService, first, last string) *models.Session {
	t.Helper()
	ctx := context.Background()

	result, err := auth.Register(ctx, &models.RegisterRequest{
		Role:      models.RolePatient,
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
	})
	require.NoError(t, err)

	sess, err := auth.Authenticate(ctx, result.Username, result.GeneratedPassword)
	require.NoError(t, err)
	return sess
}

// registerHospital registers a hospital with generated credentials and logs
// it in
func registerHospital(t *testing.T, auth *AuthService, name string) *models.Session {
	t.Helper()
	ctx := context.Background()

	result, err := auth.Register(ctx, &models.RegisterRequest{
		Role:    models.RoleHospital,
		Name:    name,
		Address: "1 Main St",
		Phone:   "555-0100",
		Email:   "contact@example.com",
	})
	require.NoError(t, err)

	sess, err := auth.Authenticate(ctx, result.Username, result.GeneratedPassword)
	require.NoError(t, err)
	return sess
}

// adminSession seeds and logs in the bootstrap admin
func adminSession(t *testing.T, db *gorm.DB, auth *AuthService) *models.Session {
	t.Helper()
	require.NoError(t, database.Seed(db, "admin", "admin-secret"))

	sess, err := auth.Authenticate(context.Background(), "admin", "admin-secret")
	require.NoError(t, err)
	return sess
}
