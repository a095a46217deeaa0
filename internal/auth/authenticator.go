package auth

import (
	"context"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The committee core is single-administrator; this abstraction only exists so
// the transport layer can swap auth methods without touching the handlers.
type Authenticator interface {
	// Register creates a new administrator account.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements.
	ValidateCredential(credential string) error
}
