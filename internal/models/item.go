package models

// Item represents a sellable product.
//
// An item always belongs to exactly one store (StoreID is never empty).
// Tags are attached through ItemTagLink records; link order is irrelevant.
type Item struct {
	// ID is the unique identifier for the item (UUID format, or the
	// caller-supplied identifier on the replace path).
	ID string `json:"id"`

	// Name is the display name of the item.
	Name string `json:"name"`

	// Price is the item price in the store's currency.
	Price float64 `json:"price"`

	// StoreID references the owning store.
	StoreID string `json:"store_id"`

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64 `json:"created_at"`
}
