package memory

import (
	"context"
	"testing"

	apperrors "github.com/tmukherjee/storefront/internal/errors"
	"github.com/tmukherjee/storefront/internal/models"
)

// The in-memory store must enforce the same consistency rules as the SQLite
// backend so it can stand in for it under the service tests.

func TestConsistencyRules(t *testing.T) {
	s := New()
	ctx := context.Background()

	store := &models.Store{Name: "corner-shop"}
	if err := s.CreateStore(ctx, store); err != nil {
		t.Fatalf("CreateStore failed: %v", err)
	}
	other := &models.Store{Name: "other-shop"}
	if err := s.CreateStore(ctx, other); err != nil {
		t.Fatalf("CreateStore failed: %v", err)
	}

	t.Run("duplicate store name", func(t *testing.T) {
		err := s.CreateStore(ctx, &models.Store{Name: "corner-shop"})
		if !apperrors.Is(err, apperrors.ErrAlreadyExists) {
			t.Errorf("Expected already-exists error, got %v", err)
		}
	})

	item := &models.Item{Name: "apples", Price: 2.5, StoreID: store.ID}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	tag := &models.Tag{Name: "produce", StoreID: store.ID}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	foreignTag := &models.Tag{Name: "produce", StoreID: other.ID}
	if err := s.CreateTag(ctx, foreignTag); err != nil {
		t.Fatalf("CreateTag in other store failed: %v", err)
	}

	t.Run("duplicate tag per store", func(t *testing.T) {
		err := s.CreateTag(ctx, &models.Tag{Name: "produce", StoreID: store.ID})
		if !apperrors.Is(err, apperrors.ErrAlreadyExists) {
			t.Errorf("Expected already-exists error, got %v", err)
		}
	})

	t.Run("cross-store link rejected", func(t *testing.T) {
		err := s.LinkItemTag(ctx, item.ID, foreignTag.ID)
		if !apperrors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("link idempotent, tag delete blocked then allowed", func(t *testing.T) {
		if err := s.LinkItemTag(ctx, item.ID, tag.ID); err != nil {
			t.Fatalf("LinkItemTag failed: %v", err)
		}
		if err := s.LinkItemTag(ctx, item.ID, tag.ID); err != nil {
			t.Fatalf("LinkItemTag retry failed: %v", err)
		}
		tags, _ := s.ListItemTags(ctx, item.ID)
		if len(tags) != 1 {
			t.Fatalf("Expected one link, got %d", len(tags))
		}

		if err := s.DeleteTag(ctx, tag.ID); !apperrors.Is(err, apperrors.ErrConflict) {
			t.Errorf("Expected conflict error, got %v", err)
		}
		if err := s.UnlinkItemTag(ctx, item.ID, tag.ID); err != nil {
			t.Fatalf("UnlinkItemTag failed: %v", err)
		}
		if err := s.DeleteTag(ctx, tag.ID); err != nil {
			t.Errorf("DeleteTag failed: %v", err)
		}
	})

	t.Run("replace upserts", func(t *testing.T) {
		up := &models.Item{ID: "my-id", Name: "pears", Price: 3, StoreID: store.ID}
		created, err := s.ReplaceItem(ctx, up)
		if err != nil || !created {
			t.Fatalf("ReplaceItem insert: created=%v err=%v", created, err)
		}
		up2 := &models.Item{ID: "my-id", Name: "pears", Price: 4}
		created, err = s.ReplaceItem(ctx, up2)
		if err != nil || created {
			t.Fatalf("ReplaceItem update: created=%v err=%v", created, err)
		}
		got, _ := s.GetItem(ctx, "my-id")
		if got.Price != 4 || got.StoreID != store.ID {
			t.Errorf("Unexpected item after replace: %+v", got)
		}
	})

	t.Run("store cascade", func(t *testing.T) {
		if err := s.DeleteStore(ctx, store.ID); err != nil {
			t.Fatalf("DeleteStore failed: %v", err)
		}
		if _, err := s.GetItem(ctx, item.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected item gone, got %v", err)
		}
		if _, err := s.GetItem(ctx, "my-id"); !apperrors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected upserted item gone, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		if err := s.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "h"}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		err := s.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "h2"})
		if !apperrors.Is(err, apperrors.ErrConflict) {
			t.Errorf("Expected conflict error, got %v", err)
		}
	})
}
