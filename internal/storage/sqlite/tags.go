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

// CreateTag persists a new tag into tag.StoreID.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if tag.CreatedAt == 0 {
		tag.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := storeExists(ctx, tx, tag.StoreID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tags (id, name, store_id, created_at) VALUES (?, ?, ?, ?)",
		tag.ID, tag.Name, tag.StoreID, tag.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("a tag with that name already exists in this store")
	}
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTag retrieves a tag by ID.
func (s *SQLiteStore) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, store_id, created_at FROM tags WHERE id = ?",
		id,
	).Scan(&tag.ID, &tag.Name, &tag.StoreID, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("tag %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

// ListTags retrieves all tags ordered by creation time.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, store_id, created_at FROM tags ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListStoreTags retrieves the tags owned by one store.
func (s *SQLiteStore) ListStoreTags(ctx context.Context, storeID string) ([]models.Tag, error) {
	// Distinguish "store absent" from "store with no tags".
	if _, err := s.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, store_id, created_at FROM tags WHERE store_id = ? ORDER BY created_at, id",
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list store tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// DeleteTag removes a tag, refusing while items are still linked to it.
func (s *SQLiteStore) DeleteTag(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var linked int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM item_tags WHERE tag_id = ?",
		id,
	).Scan(&linked)
	if err != nil {
		return fmt.Errorf("failed to count tag links: %w", err)
	}
	if linked > 0 {
		return apperrors.Conflict("tag still in use, unlink its items first")
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("tag %s not found", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LinkItemTag associates an item with a tag from the same store.
func (s *SQLiteStore) LinkItemTag(ctx context.Context, itemID, tagID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var itemStore string
	err = tx.QueryRowContext(ctx, "SELECT store_id FROM items WHERE id = ?", itemID).Scan(&itemStore)
	if err == sql.ErrNoRows {
		return apperrors.NotFoundf("item %s not found", itemID)
	}
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}

	var tagStore string
	err = tx.QueryRowContext(ctx, "SELECT store_id FROM tags WHERE id = ?", tagID).Scan(&tagStore)
	if err == sql.ErrNoRows {
		return apperrors.NotFoundf("tag %s not found", tagID)
	}
	if err != nil {
		return fmt.Errorf("failed to get tag: %w", err)
	}

	if itemStore != tagStore {
		return apperrors.Validation("item and tag must belong to the same store")
	}

	// Linking twice is a no-op.
	_, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO item_tags (id, item_id, tag_id) VALUES (?, ?, ?)",
		uuid.New().String(), itemID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UnlinkItemTag removes the association between an item and a tag.
func (s *SQLiteStore) UnlinkItemTag(ctx context.Context, itemID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?",
		itemID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("item %s is not linked to tag %s", itemID, tagID)
	}

	return nil
}

// ListItemTags retrieves the tags linked to an item.
func (s *SQLiteStore) ListItemTags(ctx context.Context, itemID string) ([]models.Tag, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.store_id, t.created_at
		 FROM tags t
		 JOIN item_tags l ON l.tag_id = t.id
		 WHERE l.item_id = ?
		 ORDER BY t.created_at, t.id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list item tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListTagItems retrieves the items linked to a tag.
func (s *SQLiteStore) ListTagItems(ctx context.Context, tagID string) ([]models.Item, error) {
	if _, err := s.GetTag(ctx, tagID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.price, i.store_id, i.created_at
		 FROM items i
		 JOIN item_tags l ON l.item_id = i.id
		 WHERE l.tag_id = ?
		 ORDER BY i.created_at, i.id`,
		tagID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tag items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// scanTags drains a tag result set.
func scanTags(rows *sql.Rows) ([]models.Tag, error) {
	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.StoreID, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}
