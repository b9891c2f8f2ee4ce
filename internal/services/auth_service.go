package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
	"github.com/trackmyhealth/healthtrack/internal/cache"
	"github.com/trackmyhealth/healthtrack/internal/metrics"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Default passwords assigned at registration when the caller supplies none,
// kept for compatibility with the existing user base.
const (
	defaultPatientPassword  = "patient123"
	defaultHospitalPassword = "hospital123"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AuthService handles registration, authentication, and account
// administration
type AuthService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	cache    cache.Cache

	jwtSecret     []byte
	tokenTTL      time.Duration
	maxAttempts   int
	lockoutWindow time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	db *gorm.DB,
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	c cache.Cache,
	jwtSecret string,
	tokenTTL time.Duration,
	maxAttempts int,
	lockoutWindow time.Duration,
) *AuthService {
	return &AuthService{
		db:            db,
		users:         users,
		profiles:      profiles,
		cache:         c,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		maxAttempts:   maxAttempts,
		lockoutWindow: lockoutWindow,
	}
}

// RegisterResult carries the created identity and the credentials assigned
// to it. GeneratedPassword is set only when the service picked the password.
type RegisterResult struct {
	User              *models.User `json:"user"`
	Username          string       `json:"username"`
	GeneratedPassword string       `json:"generated_password,omitempty"`
}

// Register creates an identity and its role profile in one transaction.
// When username or password are absent, deterministic defaults are
// assigned: "firstname.lastname" for patients, the hospital name lowercased
// with spaces removed for hospitals, and the fixed per-role default
// password.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*RegisterResult, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	password := req.Password
	generated := ""

	if username == "" {
		username = defaultUsername(req)
	}
	if password == "" {
		password = defaultPassword(req.Role)
		generated = password
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         req.Role,
		DisplayName:  displayName(req),
		Email:        req.Email,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.users.WithTx(tx).UsernameExists(ctx, username)
		if err != nil {
			return apperrors.Internal(err)
		}
		if exists {
			return apperrors.DuplicateUsername(username)
		}

		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.DuplicateUsername(username)
			}
			return apperrors.Internal(err)
		}

		switch req.Role {
		case models.RolePatient:
			profile := &models.PatientProfile{
				UserID:      user.ID,
				FirstName:   req.FirstName,
				LastName:    req.LastName,
				DateOfBirth: req.DateOfBirth,
				Gender:      req.Gender,
			}
			if err := s.profiles.WithTx(tx).CreatePatient(ctx, profile); err != nil {
				return apperrors.Internal(err)
			}
		case models.RoleHospital:
			profile := &models.HospitalProfile{
				UserID:  user.ID,
				Name:    req.Name,
				Address: req.Address,
				Phone:   req.Phone,
			}
			if err := s.profiles.WithTx(tx).CreateHospital(ctx, profile); err != nil {
				return apperrors.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.WithLabelValues(string(user.Role)).Inc()

	return &RegisterResult{
		User:              user,
		Username:          username,
		GeneratedPassword: generated,
	}, nil
}

// Authenticate verifies credentials and returns a role-scoped session with
// a signed token. Repeated failures within the lockout window lock the
// account out temporarily.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Session, error) {
	if username == "" || password == "" {
		return nil, apperrors.Validation("username and password are required")
	}

	if s.lockedOut(ctx, username) {
		metrics.LoginAttempts.WithLabelValues("locked_out").Inc()
		return nil, apperrors.TooManyAttempts()
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, username)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return nil, apperrors.InvalidCredentials()
	}

	s.clearFailures(ctx, username)

	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(user, profileID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return &models.Session{
		UserID:      user.ID,
		ProfileID:   profileID,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		Token:       token,
	}, nil
}

// ResetPassword overwrites the user's password with a freshly generated one
// and returns it in plaintext. Admin only.
func (s *AuthService) ResetPassword(ctx context.Context, sess *models.Session, username string) (string, error) {
	if sess.Role != models.RoleAdmin {
		return "", apperrors.Forbidden("only admins can reset passwords")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("user")
		}
		return "", apperrors.Internal(err)
	}

	newPassword, err := generatePassword(12)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return "", apperrors.Internal(err)
	}

	return newPassword, nil
}

// ListUsers retrieves all identities. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, sess *models.Session) ([]models.User, error) {
	if sess.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can list users")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

// DeleteUser destructively removes an identity and its owned profile in one
// transaction. Admin only.
func (s *AuthService) DeleteUser(ctx context.Context, sess *models.Session, userID uuid.UUID) error {
	if sess.Role != models.RoleAdmin {
		return apperrors.Forbidden("only admins can delete users")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user")
			}
			return apperrors.Internal(err)
		}
		if err := s.profiles.WithTx(tx).DeleteByUserID(ctx, userID); err != nil {
			return apperrors.Internal(err)
		}
		if err := s.users.WithTx(tx).Delete(ctx, userID); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// ParseToken validates a signed token and rebuilds the session
func (s *AuthService) ParseToken(tokenString string) (*models.Session, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperrors.InvalidCredentials()
	}

	return &models.Session{
		UserID:      claims.UserID,
		ProfileID:   claims.ProfileID,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		Token:       tokenString,
	}, nil
}

func (s *AuthService) signToken(user *models.User, profileID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &models.SessionClaims{
		UserID:      user.ID,
		ProfileID:   profileID,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) profileID(ctx context.Context, user *models.User) (uuid.UUID, error) {
	switch user.Role {
	case models.RolePatient:
		profile, err := s.profiles.GetPatientByUserID(ctx, user.ID)
		if err != nil {
			return uuid.Nil, apperrors.Internal(err)
		}
		return profile.ID, nil
	case models.RoleHospital:
		profile, err := s.profiles.GetHospitalByUserID(ctx, user.ID)
		if err != nil {
			return uuid.Nil, apperrors.Internal(err)
		}
		return profile.ID, nil
	default:
		return uuid.Nil, nil
	}
}

func (s *AuthService) lockedOut(ctx context.Context, username string) bool {
	val, err := s.cache.Get(ctx, cache.LoginAttemptsKey(username))
	if err != nil {
		return false
	}
	attempts, err := strconv.Atoi(string(val))
	if err != nil {
		return false
	}
	return attempts >= s.maxAttempts
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	key := cache.LoginAttemptsKey(username)
	attempts := 0
	if val, err := s.cache.Get(ctx, key); err == nil {
		attempts, _ = strconv.Atoi(string(val))
	}
	attempts++
	if err := s.cache.Set(ctx, key, []byte(strconv.Itoa(attempts)), s.lockoutWindow); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to record login failure")
	}
}

func (s *AuthService) clearFailures(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, cache.LoginAttemptsKey(username)); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to clear login failures")
	}
}

func validateRegistration(req *models.RegisterRequest) error {
	switch req.Role {
	case models.RolePatient:
		if req.FirstName == "" || req.LastName == "" || req.Email == "" {
			return apperrors.Validation("first name, last name, and email are required")
		}
	case models.RoleHospital:
		if req.Name == "" || req.Address == "" || req.Phone == "" || req.Email == "" {
			return apperrors.Validation("name, address, phone, and email are required")
		}
	default:
		return apperrors.Validation("role must be patient or hospital")
	}
	return nil
}

func defaultUsername(req *models.RegisterRequest) string {
	if req.Role == models.RolePatient {
		return strings.ToLower(req.FirstName) + "." + strings.ToLower(req.LastName)
	}
	return strings.ToLower(strings.ReplaceAll(req.Name, " ", ""))
}

func defaultPassword(role models.Role) string {
	if role == models.RoleHospital {
		return defaultHospitalPassword
	}
	return defaultPatientPassword
}

func displayName(req *models.RegisterRequest) string {
	if req.Role == models.RolePatient {
		return req.FirstName + " " + req.LastName
	}
	return req.Name
}

func generatePassword(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b[i] = passwordCharset[n.Int64()]
	}
	return string(b), nil
}
