package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/pricewise/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// PasswordAuthenticator checks admin passwords against bcrypt hashes taken
// from configuration.
type PasswordAuthenticator struct {
	admins map[string]*models.Admin // keyed by lower-cased email
}

// NewPasswordAuthenticator creates an authenticator for the given admins.
// Admins without an email or password hash are ignored.
func NewPasswordAuthenticator(admins ...*models.Admin) *PasswordAuthenticator {
	a := &PasswordAuthenticator{admins: make(map[string]*models.Admin, len(admins))}
	for _, admin := range admins {
		if admin == nil || admin.Email == "" || admin.PasswordHash == "" {
			continue
		}
		a.admins[strings.ToLower(admin.Email)] = admin
	}
	return a
}

// Authenticate verifies the email and password, returning the admin if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Admin, error) {
	admin, ok := a.admins[strings.ToLower(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// HashPassword produces the bcrypt hash to put in the admin configuration.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
