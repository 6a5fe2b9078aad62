package handlers

import (
	"testing"

	"github.com/athletix/events-api/internal/auth"
	"github.com/athletix/events-api/internal/config"
	"github.com/athletix/events-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.ModerationLog{},
		&models.APIKey{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

// newTestAuth returns an auth handler with no moderator role configured, so
// any authenticated user may moderate, plus a session cookie for a fresh user.
func newTestAuth(t *testing.T, db *gorm.DB) (*auth.AuthHandler, models.User, auth.AuthInput) {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db, nil)

	user := models.User{DiscordID: "123456789", Username: "mod"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := authHandler.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return authHandler, user, auth.AuthInput{Cookie: "auth_token=" + token}
}
