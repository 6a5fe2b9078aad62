package auth

import (
	"context"
	"testing"
	"time"

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
	if err := db.AutoMigrate(&models.User{}, &models.APIKey{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func TestHandleMe(t *testing.T) {
	db := newTestDB(t)

	user := models.User{
		DiscordID: "123456",
		Username:  "testuser",
		Email:     "test@example.com",
		Avatar:    "avatar_url",
	}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, nil)

	t.Run("Authenticated", func(t *testing.T) {
		token, _ := handler.GenerateToken(user.ID)
		input := &AuthInput{
			Cookie: "auth_token=" + token,
		}
		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Username != user.Username {
			t.Errorf("expected username %s, got %s", user.Username, resp.Body.Username)
		}
		if resp.Body.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, resp.Body.Email)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &AuthInput{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})
}

func TestAuthorizeAPIKey(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, nil)

	user := models.User{DiscordID: "123456", Username: "bot-owner"}
	db.Create(&user)

	key := models.APIKey{UserID: user.ID, Key: "valid-key", Name: "ci"}
	db.Create(&key)

	userID, err := handler.Authorize(context.Background(), AuthInput{APIKey: "valid-key"})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if userID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, userID)
	}

	var updated models.APIKey
	db.First(&updated, key.ID)
	if updated.LastUsedAt == nil {
		t.Error("expected last_used_at to be set")
	}

	t.Run("Expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		expired := models.APIKey{UserID: user.ID, Key: "expired-key", Name: "old", ExpiresAt: &past}
		db.Create(&expired)

		_, err := handler.Authorize(context.Background(), AuthInput{APIKey: "expired-key"})
		if err == nil {
			t.Fatal("expected error for expired key")
		}
	})
}

func TestRequireModerator(t *testing.T) {
	db := newTestDB(t)

	user := models.User{DiscordID: "123456", Username: "mod"}
	db.Create(&user)

	t.Run("NoRoleConfigured", func(t *testing.T) {
		cfg := &config.Config{JWTSecret: "test-secret"}
		handler := NewAuthHandler(cfg, db, nil)

		token, _ := handler.GenerateToken(user.ID)
		got, err := handler.RequireModerator(context.Background(), AuthInput{Cookie: "auth_token=" + token})
		if err != nil {
			t.Fatalf("RequireModerator returned error: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})

	t.Run("RoleRequired", func(t *testing.T) {
		cfg := &config.Config{JWTSecret: "test-secret", ModeratorRoleID: "role-1"}
		handler := NewAuthHandler(cfg, db, stubRoles{"role-1": true})

		token, _ := handler.GenerateToken(user.ID)
		if _, err := handler.RequireModerator(context.Background(), AuthInput{Cookie: "auth_token=" + token}); err != nil {
			t.Fatalf("RequireModerator returned error: %v", err)
		}
	})

	t.Run("RoleMissing", func(t *testing.T) {
		cfg := &config.Config{JWTSecret: "test-secret", ModeratorRoleID: "role-1"}
		handler := NewAuthHandler(cfg, db, stubRoles{})

		token, _ := handler.GenerateToken(user.ID)
		if _, err := handler.RequireModerator(context.Background(), AuthInput{Cookie: "auth_token=" + token}); err == nil {
			t.Fatal("expected forbidden error")
		}
	})
}

type stubRoles map[string]bool

func (s stubRoles) HasRole(discordID, roleID string) (bool, error) {
	return s[roleID], nil
}
