package auth

import (
	"testing"
	"time"

	"github.com/tmukherjee/storefront/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	user := &models.User{ID: "u1", Username: "alice", IsAdmin: true}
	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" || !claims.IsAdmin {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestJWTRejectsWrongKey(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	other := NewJWTManager("a-completely-different-secret!!!", time.Hour)

	token, err := m.Generate(&models.User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Error("Expected validation to fail with wrong key")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := m.Generate(&models.User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Error("Expected validation to fail for expired token")
	}
}
