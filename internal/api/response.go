package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
)

// envelope provides a consistent JSON response structure.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// respond writes a JSON response with the given status code.
func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError writes an error response derived from the error's domain code.
// Unknown errors (driver failures, broken invariants) become a 500 and are
// logged; their internals never reach the client.
func respondError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if apperrors.As(err, &domainErr) && domainErr.Code != apperrors.CodeStorage {
		writeError(w, domainErr.HTTPStatus(), domainErr.Message, domainErr.Details)
		return
	}

	slog.Error("Unhandled error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error", nil)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Error: message, Details: details}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
