package auth

import (
	"context"
	"sync"
	"testing"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
	"github.com/tmukherjee/storefront/internal/models"
	"github.com/tmukherjee/storefront/internal/storage/memory"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(memory.New())
	ctx := context.Background()

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "alice", "short")
		if !apperrors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("first user becomes admin", func(t *testing.T) {
		user, err := a.Register(ctx, "alice", "correct horse battery")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if !user.IsAdmin {
			t.Error("Expected first user to be admin")
		}
		if user.PasswordHash == "correct horse battery" {
			t.Error("Password must not be stored in plaintext")
		}
	})

	t.Run("later users are not admin", func(t *testing.T) {
		user, err := a.Register(ctx, "bob", "another secret pw")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.IsAdmin {
			t.Error("Expected second user not to be admin")
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := a.Register(ctx, "alice", "whatever password")
		if !apperrors.Is(err, apperrors.ErrConflict) {
			t.Errorf("Expected conflict error, got %v", err)
		}
	})

	t.Run("authenticate with correct password", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "alice", "correct horse battery")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("Unexpected user: %+v", user)
		}
	})

	t.Run("authenticate with wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "alice", "wrong password !")
		if !apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected invalid-credentials error, got %v", err)
		}
	})

	t.Run("authenticate unknown user", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "mallory", "some password 99")
		if !apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected invalid-credentials error, got %v", err)
		}
	})
}

var errDiskIO = apperrors.New("disk I/O error")

// failingUserStorage returns a storage error from every operation, standing
// in for an unreachable database.
type failingUserStorage struct{}

func (failingUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	return apperrors.Storage("create user", errDiskIO)
}

func (failingUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, apperrors.Storage("query user", errDiskIO)
}

func (failingUserStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return nil, apperrors.Storage("query user", errDiskIO)
}

func (failingUserStorage) CountUsers(ctx context.Context) (int, error) {
	return 0, apperrors.Storage("count users", errDiskIO)
}

func TestAuthenticateStorageFailure(t *testing.T) {
	a := NewPasswordAuthenticator(failingUserStorage{})

	_, err := a.Authenticate(context.Background(), "alice", "correct horse battery")
	if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Storage failure must not be reported as invalid credentials: %v", err)
	}
	if !apperrors.Is(err, apperrors.ErrStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func TestRegisterConcurrentBootstrap(t *testing.T) {
	a := NewPasswordAuthenticator(memory.New())
	ctx := context.Background()

	const n = 8
	users := make([]*models.User, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := a.Register(ctx, "user-"+string(rune('a'+i)), "a long password")
			if err != nil {
				t.Errorf("Register failed: %v", err)
				return
			}
			users[i] = user
		}()
	}
	wg.Wait()

	admins := 0
	for _, user := range users {
		if user != nil && user.IsAdmin {
			admins++
		}
	}
	if admins != 1 {
		t.Errorf("Expected exactly one admin after concurrent registration, got %d", admins)
	}
}
