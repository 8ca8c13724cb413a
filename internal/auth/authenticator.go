package auth

import (
	"context"

	"github.com/mmynk/pricewise/internal/models"
)

// Authenticator defines the interface for admin authentication implementations.
// This abstraction allows swapping between different auth methods (configured
// password, SSO, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the admin's credentials and returns the admin if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.Admin, error)
}
