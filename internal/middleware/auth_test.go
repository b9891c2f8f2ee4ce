package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/models"
)

type fakeParser struct {
	session *models.Session
}

func (f *fakeParser) ParseToken(token string) (*models.Session, error) {
	if token == "valid" {
		return f.session, nil
	}
	return nil, apperrors.InvalidCredentials()
}

func TestAuthenticate(t *testing.T) {
	parser := &fakeParser{session: &models.Session{
		UserID: uuid.New(),
		Role:   models.RolePatient,
	}}

	var captured *models.Session
	handler := Authenticate(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		require.True(t, ok)
		captured = sess
	}))

	// Missing header
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token resolves the session onto the context
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, parser.session.UserID, captured.UserID)
}

func TestRequireRole(t *testing.T) {
	parser := &fakeParser{session: &models.Session{
		UserID: uuid.New(),
		Role:   models.RoleHospital,
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	allowed := Authenticate(parser)(RequireRole(models.RoleHospital, models.RoleAdmin)(next))
	denied := Authenticate(parser)(RequireRole(models.RolePatient)(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")

	rec := httptest.NewRecorder()
	allowed.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	denied.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
