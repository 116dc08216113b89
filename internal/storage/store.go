// Package storage provides abstractions for persistent catalog data storage.
package storage

import (
	"context"

	"github.com/tmukherjee/storefront/internal/models"
)

// Store defines the persistence contract for the catalog and its users.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// in-memory) without changing the service layer.
//
// Implementations enforce the catalog's consistency rules atomically:
// uniqueness of store names, tag (name, store) pairs and usernames; cascade
// deletion of a store's items, tags and links; removal of an item's links on
// item delete; refusal to delete a tag while links remain; and refusal to
// link an item to a tag from a different store. Every multi-step mutation is
// all-or-nothing, and all lookups of absent entities return a domain
// not-found error.
type Store interface {
	// CreateStore persists a new store. The store.ID and store.CreatedAt
	// fields are populated by the store. Fails with an already-exists
	// error when a store with the same name is present (exact,
	// case-sensitive match).
	CreateStore(ctx context.Context, store *models.Store) error

	// GetStore retrieves a store by its ID.
	GetStore(ctx context.Context, id string) (*models.Store, error)

	// ListStores retrieves all stores.
	ListStores(ctx context.Context) ([]models.Store, error)

	// DeleteStore removes a store and cascades to its items, its tags,
	// and every link touching them, in a single transaction.
	DeleteStore(ctx context.Context, id string) error

	// CreateItem persists a new item into item.StoreID. The item.ID and
	// item.CreatedAt fields are populated by the store. Fails with a
	// not-found error when the referenced store is absent.
	CreateItem(ctx context.Context, item *models.Item) error

	// ReplaceItem updates the name and price of the item with item.ID in
	// place, leaving its store untouched; when no such item exists it
	// inserts a new item under the caller-supplied ID into item.StoreID.
	// Reports whether a new row was created.
	ReplaceItem(ctx context.Context, item *models.Item) (created bool, err error)

	// GetItem retrieves an item by its ID.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// ListItems retrieves all items.
	ListItems(ctx context.Context) ([]models.Item, error)

	// DeleteItem removes an item together with its tag links.
	DeleteItem(ctx context.Context, id string) error

	// CreateTag persists a new tag into tag.StoreID. Fails with an
	// already-exists error when the (name, store) pair is taken and with
	// a not-found error when the store is absent.
	CreateTag(ctx context.Context, tag *models.Tag) error

	// GetTag retrieves a tag by its ID.
	GetTag(ctx context.Context, id string) (*models.Tag, error)

	// ListTags retrieves all tags.
	ListTags(ctx context.Context) ([]models.Tag, error)

	// ListStoreTags retrieves the tags owned by one store.
	ListStoreTags(ctx context.Context, storeID string) ([]models.Tag, error)

	// DeleteTag removes a tag. Fails with a conflict error while one or
	// more items are still linked to it.
	DeleteTag(ctx context.Context, id string) error

	// LinkItemTag associates an item with a tag from the same store.
	// Linking across stores fails with a validation error; linking an
	// already-linked pair is a no-op.
	LinkItemTag(ctx context.Context, itemID, tagID string) error

	// UnlinkItemTag removes the association between an item and a tag.
	// Fails with a not-found error when no such link exists.
	UnlinkItemTag(ctx context.Context, itemID, tagID string) error

	// ListItemTags retrieves the tags linked to an item.
	ListItemTags(ctx context.Context, itemID string) ([]models.Tag, error)

	// ListTagItems retrieves the items linked to a tag.
	ListTagItems(ctx context.Context, tagID string) ([]models.Item, error)

	// CreateUser persists a new user. Fails with a conflict error when
	// the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context) ([]models.User, error)

	// DeleteUser removes a user. Users have no cascade dependents.
	DeleteUser(ctx context.Context, id string) error

	// CountUsers reports the number of registered users.
	CountUsers(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
