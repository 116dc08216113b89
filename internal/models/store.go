package models

// Store represents a merchant entity.
//
// A store exclusively owns its items and tags: deleting a store cascades to
// both. Store names are unique across the catalog; creation with a duplicate
// name is rejected as a conflict.
type Store struct {
	// ID is the unique identifier for the store (UUID format).
	ID string `json:"id"`

	// Name is the display name of the store. Uniqueness is exact and
	// case-sensitive, no normalization is applied.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the store was created.
	CreatedAt int64 `json:"created_at"`
}
