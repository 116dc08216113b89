// Package memory provides an in-memory implementation of the storage.Store
// interface. It enforces the same consistency rules as the SQLite backend and
// backs the service tests; it is constructed explicitly and carries no
// package-level state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
	"github.com/tmukherjee/storefront/internal/models"
	"github.com/tmukherjee/storefront/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with mutex-guarded maps.
type MemoryStore struct {
	mu     sync.RWMutex
	stores map[string]models.Store
	items  map[string]models.Item
	tags   map[string]models.Tag
	links  map[string]models.ItemTagLink // keyed by link ID
	users  map[string]models.User
	// insertion counter, keeps list order deterministic
	seq   int64
	order map[string]int64
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		stores: make(map[string]models.Store),
		items:  make(map[string]models.Item),
		tags:   make(map[string]models.Tag),
		links:  make(map[string]models.ItemTagLink),
		users:  make(map[string]models.User),
		order:  make(map[string]int64),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) track(id string) {
	m.seq++
	m.order[id] = m.seq
}

// CreateStore persists a new store.
func (m *MemoryStore) CreateStore(ctx context.Context, store *models.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.stores {
		if s.Name == store.Name {
			return apperrors.AlreadyExists("a store with that name already exists")
		}
	}
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if store.CreatedAt == 0 {
		store.CreatedAt = time.Now().Unix()
	}
	m.stores[store.ID] = *store
	m.track(store.ID)
	return nil
}

// GetStore retrieves a store by ID.
func (m *MemoryStore) GetStore(ctx context.Context, id string) (*models.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stores[id]
	if !ok {
		return nil, apperrors.NotFoundf("store %s not found", id)
	}
	return &s, nil
}

// ListStores retrieves all stores in insertion order.
func (m *MemoryStore) ListStores(ctx context.Context) ([]models.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Store
	for _, s := range m.stores {
		out = append(out, s)
	}
	return sortByInsertion(out, m.order, func(s models.Store) string { return s.ID }), nil
}

// DeleteStore removes a store and cascades to its items, tags, and links.
func (m *MemoryStore) DeleteStore(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stores[id]; !ok {
		return apperrors.NotFoundf("store %s not found", id)
	}
	for linkID, l := range m.links {
		item, itemOK := m.items[l.ItemID]
		tag, tagOK := m.tags[l.TagID]
		if (itemOK && item.StoreID == id) || (tagOK && tag.StoreID == id) {
			delete(m.links, linkID)
		}
	}
	for itemID, item := range m.items {
		if item.StoreID == id {
			delete(m.items, itemID)
		}
	}
	for tagID, tag := range m.tags {
		if tag.StoreID == id {
			delete(m.tags, tagID)
		}
	}
	delete(m.stores, id)
	return nil
}

// CreateItem persists a new item into item.StoreID.
func (m *MemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stores[item.StoreID]; !ok {
		return apperrors.NotFoundf("store %s not found", item.StoreID)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	m.items[item.ID] = *item
	m.track(item.ID)
	return nil
}

// ReplaceItem updates name/price in place or inserts under the supplied ID.
func (m *MemoryStore) ReplaceItem(ctx context.Context, item *models.Item) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.items[item.ID]; ok {
		existing.Name = item.Name
		existing.Price = item.Price
		m.items[item.ID] = existing
		*item = existing
		return false, nil
	}

	if item.StoreID == "" {
		return false, apperrors.Validation("store_id is required when creating an item")
	}
	if _, ok := m.stores[item.StoreID]; !ok {
		return false, apperrors.NotFoundf("store %s not found", item.StoreID)
	}
	item.CreatedAt = time.Now().Unix()
	m.items[item.ID] = *item
	m.track(item.ID)
	return true, nil
}

// GetItem retrieves an item by ID.
func (m *MemoryStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, apperrors.NotFoundf("item %s not found", id)
	}
	return &item, nil
}

// ListItems retrieves all items in insertion order.
func (m *MemoryStore) ListItems(ctx context.Context) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Item
	for _, item := range m.items {
		out = append(out, item)
	}
	return sortByInsertion(out, m.order, func(i models.Item) string { return i.ID }), nil
}

// DeleteItem removes an item together with its tag links.
func (m *MemoryStore) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return apperrors.NotFoundf("item %s not found", id)
	}
	for linkID, l := range m.links {
		if l.ItemID == id {
			delete(m.links, linkID)
		}
	}
	delete(m.items, id)
	return nil
}

// CreateTag persists a new tag into tag.StoreID.
func (m *MemoryStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stores[tag.StoreID]; !ok {
		return apperrors.NotFoundf("store %s not found", tag.StoreID)
	}
	for _, t := range m.tags {
		if t.Name == tag.Name && t.StoreID == tag.StoreID {
			return apperrors.AlreadyExists("a tag with that name already exists in this store")
		}
	}
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if tag.CreatedAt == 0 {
		tag.CreatedAt = time.Now().Unix()
	}
	m.tags[tag.ID] = *tag
	m.track(tag.ID)
	return nil
}

// GetTag retrieves a tag by ID.
func (m *MemoryStore) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag, ok := m.tags[id]
	if !ok {
		return nil, apperrors.NotFoundf("tag %s not found", id)
	}
	return &tag, nil
}

// ListTags retrieves all tags in insertion order.
func (m *MemoryStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Tag
	for _, tag := range m.tags {
		out = append(out, tag)
	}
	return sortByInsertion(out, m.order, func(t models.Tag) string { return t.ID }), nil
}

// ListStoreTags retrieves the tags owned by one store.
func (m *MemoryStore) ListStoreTags(ctx context.Context, storeID string) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.stores[storeID]; !ok {
		return nil, apperrors.NotFoundf("store %s not found", storeID)
	}
	var out []models.Tag
	for _, tag := range m.tags {
		if tag.StoreID == storeID {
			out = append(out, tag)
		}
	}
	return sortByInsertion(out, m.order, func(t models.Tag) string { return t.ID }), nil
}

// DeleteTag removes a tag, refusing while items are still linked to it.
func (m *MemoryStore) DeleteTag(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[id]; !ok {
		return apperrors.NotFoundf("tag %s not found", id)
	}
	for _, l := range m.links {
		if l.TagID == id {
			return apperrors.Conflict("tag still in use, unlink its items first")
		}
	}
	delete(m.tags, id)
	return nil
}

// LinkItemTag associates an item with a tag from the same store.
func (m *MemoryStore) LinkItemTag(ctx context.Context, itemID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return apperrors.NotFoundf("item %s not found", itemID)
	}
	tag, ok := m.tags[tagID]
	if !ok {
		return apperrors.NotFoundf("tag %s not found", tagID)
	}
	if item.StoreID != tag.StoreID {
		return apperrors.Validation("item and tag must belong to the same store")
	}
	for _, l := range m.links {
		if l.ItemID == itemID && l.TagID == tagID {
			return nil // idempotent
		}
	}
	id := uuid.New().String()
	m.links[id] = models.ItemTagLink{ID: id, ItemID: itemID, TagID: tagID}
	m.track(id)
	return nil
}

// UnlinkItemTag removes the association between an item and a tag.
func (m *MemoryStore) UnlinkItemTag(ctx context.Context, itemID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for linkID, l := range m.links {
		if l.ItemID == itemID && l.TagID == tagID {
			delete(m.links, linkID)
			return nil
		}
	}
	return apperrors.NotFoundf("item %s is not linked to tag %s", itemID, tagID)
}

// ListItemTags retrieves the tags linked to an item.
func (m *MemoryStore) ListItemTags(ctx context.Context, itemID string) ([]models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.items[itemID]; !ok {
		return nil, apperrors.NotFoundf("item %s not found", itemID)
	}
	var out []models.Tag
	for _, l := range m.links {
		if l.ItemID == itemID {
			if tag, ok := m.tags[l.TagID]; ok {
				out = append(out, tag)
			}
		}
	}
	return sortByInsertion(out, m.order, func(t models.Tag) string { return t.ID }), nil
}

// ListTagItems retrieves the items linked to a tag.
func (m *MemoryStore) ListTagItems(ctx context.Context, tagID string) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.tags[tagID]; !ok {
		return nil, apperrors.NotFoundf("tag %s not found", tagID)
	}
	var out []models.Item
	for _, l := range m.links {
		if l.TagID == tagID {
			if item, ok := m.items[l.ItemID]; ok {
				out = append(out, item)
			}
		}
	}
	return sortByInsertion(out, m.order, func(i models.Item) string { return i.ID }), nil
}

// CreateUser persists a new user.
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return apperrors.Conflict("a user with that username already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	m.users[user.ID] = *user
	m.track(user.ID)
	return nil
}

// GetUser retrieves a user by ID.
func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %s not found", id)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NotFoundf("user %s not found", username)
}

// ListUsers retrieves all users in insertion order.
func (m *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.User
	for _, user := range m.users {
		out = append(out, user)
	}
	return sortByInsertion(out, m.order, func(u models.User) string { return u.ID }), nil
}

// DeleteUser removes a user.
func (m *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return apperrors.NotFoundf("user %s not found", id)
	}
	delete(m.users, id)
	return nil
}

// CountUsers reports the number of registered users.
func (m *MemoryStore) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// sortByInsertion orders vals by the sequence in which their ids were
// inserted, giving lists a stable, creation-ordered result.
func sortByInsertion[T any](vals []T, order map[string]int64, id func(T) string) []T {
	sort.Slice(vals, func(i, j int) bool {
		return order[id(vals[i])] < order[id(vals[j])]
	})
	return vals
}
