package service

import (
	"context"
	"log/slog"

	"github.com/tmukherjee/storefront/internal/auth"
	"github.com/tmukherjee/storefront/internal/models"
	"github.com/tmukherjee/storefront/internal/storage"
)

// AuthService handles registration, login, and user administration.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account. The password is stored only as a
// bcrypt hash; a taken username surfaces as a conflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		slog.Warn("Registration failed", "username", username, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", username, "is_admin", user.IsAdmin)
	return user, nil
}

// Login authenticates a user and mints a signed, time-scoped access token
// carrying the user id and admin flag.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("Login failed", "username", username, "error", err)
		return "", nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	slog.Info("User logged in", "user_id", user.ID, "username", username)
	return token, user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListUsers retrieves all users.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// DeleteUser removes a user account.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		slog.Warn("DeleteUser failed", "user_id", id, "error", err)
		return err
	}

	slog.Info("User deleted", "user_id", id)
	return nil
}
