package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
	"github.com/tmukherjee/storefront/internal/models"
)

// CreateStore persists a new store to the database.
func (s *SQLiteStore) CreateStore(ctx context.Context, store *models.Store) error {
	// Generate IDs if not set
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if store.CreatedAt == 0 {
		store.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO stores (id, name, created_at) VALUES (?, ?, ?)",
		store.ID, store.Name, store.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("a store with that name already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert store: %w", err)
	}

	return nil
}

// GetStore retrieves a store by ID.
func (s *SQLiteStore) GetStore(ctx context.Context, id string) (*models.Store, error) {
	store := &models.Store{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM stores WHERE id = ?",
		id,
	).Scan(&store.ID, &store.Name, &store.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("store %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return store, nil
}

// ListStores retrieves all stores ordered by creation time.
func (s *SQLiteStore) ListStores(ctx context.Context) ([]models.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM stores ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var store models.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, nil
}

// DeleteStore removes a store and cascades to its items, tags, and links.
// The cascade runs inside a single transaction so a failure partway through
// never leaves the store deleted with dangling items.
func (s *SQLiteStore) DeleteStore(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Links first: they reference both items and tags of the store.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM item_tags
		 WHERE item_id IN (SELECT id FROM items WHERE store_id = ?)
		    OR tag_id IN (SELECT id FROM tags WHERE store_id = ?)`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete store links: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM items WHERE store_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete store items: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM tags WHERE store_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete store tags: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM stores WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("store %s not found", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
