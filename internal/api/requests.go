package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
)

// Request bodies are strongly typed and validated before they reach the
// services; unknown fields are rejected at the decode step.

type createStoreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

type createItemRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=80"`
	Price   float64 `json:"price" validate:"gte=0"`
	StoreID string  `json:"store_id" validate:"required"`
}

// replaceItemRequest carries the upsert body for PUT /item/{id}; store_id is
// only consulted on the insert path and must then reference an existing store.
type replaceItemRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=80"`
	Price   float64 `json:"price" validate:"gte=0"`
	StoreID string  `json:"store_id,omitempty"`
}

type createTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8"`
}

// decode parses the JSON request body into v, rejecting unknown fields, then
// applies struct validation. Failures surface as domain validation errors.
func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation("invalid request body: " + err.Error())
	}
	return s.validator.Validate(v)
}
