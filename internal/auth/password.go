package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
	"github.com/tmukherjee/storefront/internal/models"
)

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage

	// registerMu serializes registrations so only one caller can observe
	// the empty database and claim the bootstrap admin grant.
	registerMu sync.Mutex
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return apperrors.Validation("password must be at least 8 characters")
	}
	return nil
}

// Register creates a new user account with a hashed password. The first
// account registered on an empty database is granted admin.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, credential string) (*models.User, error) {
	// Validate password strength
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a.registerMu.Lock()
	defer a.registerMu.Unlock()

	count, err := a.storage.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsAdmin:      count == 0,
	}

	// Save to storage; a taken username surfaces as a conflict here.
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, username)
	if err != nil {
		// Only an absent user maps to the credential error; a storage
		// failure must keep its code so it surfaces as a server fault.
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, apperrors.InvalidCredentials("invalid credentials")
	}

	return user, nil
}
