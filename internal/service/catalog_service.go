// Package service implements the application services over the storage layer.
package service

import (
	"context"
	"log/slog"

	"github.com/tmukherjee/storefront/internal/models"
	"github.com/tmukherjee/storefront/internal/storage"
)

// CatalogService exposes the catalog operations: stores, items, tags, and the
// item-tag links. Consistency rules (uniqueness, cascades, same-store links)
// are enforced atomically by the storage layer; the service adds logging and
// shields handlers from the storage interface.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates a new CatalogService with the given storage backend.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// CreateStore creates a new store with a unique name.
func (s *CatalogService) CreateStore(ctx context.Context, name string) (*models.Store, error) {
	store := &models.Store{Name: name}
	if err := s.store.CreateStore(ctx, store); err != nil {
		slog.Warn("CreateStore failed", "name", name, "error", err)
		return nil, err
	}

	slog.Info("Store created", "store_id", store.ID, "name", name)
	return store, nil
}

// GetStore retrieves a store by ID.
func (s *CatalogService) GetStore(ctx context.Context, id string) (*models.Store, error) {
	return s.store.GetStore(ctx, id)
}

// ListStores retrieves all stores.
func (s *CatalogService) ListStores(ctx context.Context) ([]models.Store, error) {
	return s.store.ListStores(ctx)
}

// DeleteStore deletes a store, cascading to its items, tags, and links.
func (s *CatalogService) DeleteStore(ctx context.Context, id string) error {
	if err := s.store.DeleteStore(ctx, id); err != nil {
		slog.Warn("DeleteStore failed", "store_id", id, "error", err)
		return err
	}

	slog.Info("Store deleted", "store_id", id)
	return nil
}

// CreateItem creates a new item in the given store.
func (s *CatalogService) CreateItem(ctx context.Context, name string, price float64, storeID string) (*models.Item, error) {
	item := &models.Item{Name: name, Price: price, StoreID: storeID}
	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Warn("CreateItem failed", "name", name, "store_id", storeID, "error", err)
		return nil, err
	}

	slog.Info("Item created", "item_id", item.ID, "store_id", storeID)
	return item, nil
}

// ReplaceItem updates the named item in place, or inserts it under the
// caller-supplied ID when absent. Reports whether a new item was created.
func (s *CatalogService) ReplaceItem(ctx context.Context, id, name string, price float64, storeID string) (*models.Item, bool, error) {
	item := &models.Item{ID: id, Name: name, Price: price, StoreID: storeID}
	created, err := s.store.ReplaceItem(ctx, item)
	if err != nil {
		slog.Warn("ReplaceItem failed", "item_id", id, "error", err)
		return nil, false, err
	}

	slog.Info("Item replaced", "item_id", item.ID, "created", created)
	return item, created, nil
}

// GetItem retrieves an item by ID.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.store.GetItem(ctx, id)
}

// ListItems retrieves all items.
func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.store.ListItems(ctx)
}

// DeleteItem deletes an item and its tag links.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		slog.Warn("DeleteItem failed", "item_id", id, "error", err)
		return err
	}

	slog.Info("Item deleted", "item_id", id)
	return nil
}

// CreateTag creates a new tag in the given store.
func (s *CatalogService) CreateTag(ctx context.Context, name, storeID string) (*models.Tag, error) {
	tag := &models.Tag{Name: name, StoreID: storeID}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		slog.Warn("CreateTag failed", "name", name, "store_id", storeID, "error", err)
		return nil, err
	}

	slog.Info("Tag created", "tag_id", tag.ID, "store_id", storeID)
	return tag, nil
}

// GetTag retrieves a tag by ID.
func (s *CatalogService) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return s.store.GetTag(ctx, id)
}

// ListTags retrieves all tags.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.store.ListTags(ctx)
}

// ListStoreTags retrieves the tags owned by one store.
func (s *CatalogService) ListStoreTags(ctx context.Context, storeID string) ([]models.Tag, error) {
	return s.store.ListStoreTags(ctx, storeID)
}

// DeleteTag deletes a tag once no items are linked to it.
func (s *CatalogService) DeleteTag(ctx context.Context, id string) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		slog.Warn("DeleteTag failed", "tag_id", id, "error", err)
		return err
	}

	slog.Info("Tag deleted", "tag_id", id)
	return nil
}

// LinkItemTag links an item to a tag from the same store. Linking an already
// linked pair is a no-op.
func (s *CatalogService) LinkItemTag(ctx context.Context, itemID, tagID string) error {
	if err := s.store.LinkItemTag(ctx, itemID, tagID); err != nil {
		slog.Warn("LinkItemTag failed", "item_id", itemID, "tag_id", tagID, "error", err)
		return err
	}

	slog.Info("Item linked to tag", "item_id", itemID, "tag_id", tagID)
	return nil
}

// UnlinkItemTag removes the link between an item and a tag.
func (s *CatalogService) UnlinkItemTag(ctx context.Context, itemID, tagID string) error {
	if err := s.store.UnlinkItemTag(ctx, itemID, tagID); err != nil {
		slog.Warn("UnlinkItemTag failed", "item_id", itemID, "tag_id", tagID, "error", err)
		return err
	}

	slog.Info("Item unlinked from tag", "item_id", itemID, "tag_id", tagID)
	return nil
}

// ListItemTags retrieves the tags linked to an item.
func (s *CatalogService) ListItemTags(ctx context.Context, itemID string) ([]models.Tag, error) {
	return s.store.ListItemTags(ctx, itemID)
}

// ListTagItems retrieves the items linked to a tag.
func (s *CatalogService) ListTagItems(ctx context.Context, tagID string) ([]models.Item, error) {
	return s.store.ListTagItems(ctx, tagID)
}
