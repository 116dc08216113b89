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

// CreateItem persists a new item into item.StoreID.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := storeExists(ctx, tx, item.StoreID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO items (id, name, price, store_id, created_at) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.Name, item.Price, item.StoreID, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReplaceItem updates name and price of the item with item.ID in place, or
// inserts a new item under the caller-supplied ID when none exists. The
// lookup and mutation share one transaction so a concurrent delete cannot
// slip between them.
func (s *SQLiteStore) ReplaceItem(ctx context.Context, item *models.Item) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var storeID string
	var createdAt int64
	err = tx.QueryRowContext(ctx,
		"SELECT store_id, created_at FROM items WHERE id = ?",
		item.ID,
	).Scan(&storeID, &createdAt)

	created := false
	switch {
	case err == sql.ErrNoRows:
		// Insert path: the caller keeps its chosen identifier.
		if item.StoreID == "" {
			return false, apperrors.Validation("store_id is required when creating an item")
		}
		if err := storeExists(ctx, tx, item.StoreID); err != nil {
			return false, err
		}
		item.CreatedAt = time.Now().Unix()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, name, price, store_id, created_at) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.Name, item.Price, item.StoreID, item.CreatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert item: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("failed to get item: %w", err)
	default:
		// Update path: the owning store never changes.
		item.StoreID = storeID
		item.CreatedAt = createdAt
		_, err = tx.ExecContext(ctx,
			"UPDATE items SET name = ?, price = ? WHERE id = ?",
			item.Name, item.Price, item.ID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item := &models.Item{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price, store_id, created_at FROM items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.StoreID, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListItems retrieves all items ordered by creation time.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, store_id, created_at FROM items ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// DeleteItem removes an item together with its tag links.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, "DELETE FROM item_tags WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete item links: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("item %s not found", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// storeExists verifies the referenced store inside the current transaction.
func storeExists(ctx context.Context, tx *sql.Tx, storeID string) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM stores WHERE id = ?", storeID).Scan(&one)
	if err == sql.ErrNoRows {
		return apperrors.NotFoundf("store %s not found", storeID)
	}
	if err != nil {
		return fmt.Errorf("failed to check store: %w", err)
	}
	return nil
}

// scanItems drains an item result set.
func scanItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.StoreID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
