package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/pricewise/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	admin := &models.Admin{ID: "admin-1", Email: "owner@vittoria.example", OrganizationID: "vittoria"}

	token, expiresAt, err := manager.Generate(admin)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expected expiry in the future")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "admin-1" || claims.OrganizationID != "vittoria" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired, _, err := NewJWTManager("test-secret", -time.Minute).Generate(admin)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	hash, err := HashPassword("margherita")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	authenticator := NewPasswordAuthenticator(
		&models.Admin{ID: "admin-1", Email: "Owner@Vittoria.example", OrganizationID: "vittoria", PasswordHash: hash},
		&models.Admin{ID: "no-hash", Email: "nohash@vittoria.example"},
		nil,
	)
	ctx := context.Background()

	admin, err := authenticator.Authenticate(ctx, "owner@vittoria.example", "margherita")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if admin.ID != "admin-1" {
		t.Errorf("admin = %s, want admin-1", admin.ID)
	}

	if _, err := authenticator.Authenticate(ctx, "owner@vittoria.example", "marinara"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := authenticator.Authenticate(ctx, "nohash@vittoria.example", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("admin without hash: err = %v", err)
	}
	if _, err := authenticator.Authenticate(ctx, "stranger@example.com", "margherita"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown admin: err = %v", err)
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("err = %v, want ErrWeakPassword", err)
	}
}
