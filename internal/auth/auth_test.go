package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (m *memoryUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	authn := NewPasswordAuthenticator(newMemoryUserStorage())

	t.Run("register and authenticate", func(t *testing.T) {
		user, err := authn.Register(ctx, "admin@example.com", "Admin", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct-horse" {
			t.Error("password must not be stored in plain text")
		}

		got, err := authn.Authenticate(ctx, "admin@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("user ID mismatch: got %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := authn.Authenticate(ctx, "admin@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		_, err := authn.Authenticate(ctx, "nobody@example.com", "correct-horse")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		_, err := authn.Register(ctx, "other@example.com", "Other", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := authn.Register(ctx, "admin@example.com", "Admin Again", "another-pass")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("admin@example.com", "Admin", "hash")

	t.Run("round trip", func(t *testing.T) {
		manager := NewJWTManager("test-secret", time.Hour)
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("claims = %s/%s, want %s/%s", claims.UserID, claims.Email, user.ID, user.Email)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		manager := NewJWTManager("test-secret", -time.Minute)
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		manager := NewJWTManager("test-secret", time.Hour)
		other := NewJWTManager("other-secret", time.Hour)
		token, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		manager := NewJWTManager("test-secret", time.Hour)
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
