package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed provisions the bootstrap admin account. It is idempotent and meant
// to be invoked once at provisioning time via the -seed flag, not on every
// process start.
func Seed(db *gorm.DB, adminUsername, adminPassword string) error {
	if adminUsername == "" {
		adminUsername = "admin"
	}
	if adminPassword == "" {
		return fmt.Errorf("admin password is required for seeding")
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ?", adminUsername).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		log.Info().Str("username", adminUsername).Msg("Admin user already present, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     adminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		DisplayName:  "Administrator",
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("username", adminUsername).Msg("Admin user seeded")
	return nil
}
