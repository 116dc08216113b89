package models

// Tag represents a labeled category scoped to one store.
//
// The (Name, StoreID) pair is unique. A tag may only be linked to items that
// belong to the same store, and can only be deleted once no links remain.
type Tag struct {
	// ID is the unique identifier for the tag (UUID format).
	ID string `json:"id"`

	// Name is the display name of the tag, unique within its store.
	Name string `json:"name"`

	// StoreID references the owning store.
	StoreID string `json:"store_id"`

	// CreatedAt is the Unix timestamp when the tag was created.
	CreatedAt int64 `json:"created_at"`
}

// ItemTagLink is the association record between an item and a tag.
//
// It has no lifecycle of its own: created on link, removed on unlink, and
// removed implicitly when either participant is deleted.
type ItemTagLink struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`
	TagID  string `json:"tag_id"`
}
