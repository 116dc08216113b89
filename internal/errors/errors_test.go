package errors

import (
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := NotFoundf("store %s not found", "abc")
	if !Is(err, ErrNotFound) {
		t.Error("expected not-found errors to match the sentinel")
	}
	if Is(err, ErrConflict) {
		t.Error("codes must not cross-match")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeAccessDenied, http.StatusUnauthorized},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeStorage, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWithCausePreservesCode(t *testing.T) {
	cause := New("disk full")
	err := Storage("insert failed", cause)
	if !Is(err, ErrStorage) {
		t.Error("wrapped error should keep its code")
	}
	if Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}
