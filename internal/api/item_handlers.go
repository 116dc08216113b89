package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmukherjee/storefront/internal/access"
	"github.com/tmukherjee/storefront/internal/models"
)

// itemDetail is an item with its linked tags, returned by single-item reads.
type itemDetail struct {
	models.Item
	Tags []models.Tag `json:"tags"`
}

// handleListItems returns all items.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	items, err := s.catalog.ListItems(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": items})
}

// handleCreateItem creates a new item in an existing store.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpCreateItem) {
		return
	}

	var req createItemRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, err := s.catalog.CreateItem(r.Context(), req.Name, req.Price, req.StoreID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

// handleGetItem returns an item with its linked tags.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := s.catalog.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	tags, err := s.catalog.ListItemTags(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, itemDetail{Item: *item, Tags: tags})
}

// handleReplaceItem updates an item in place, or creates it under the
// caller-supplied ID when absent.
func (s *Server) handleReplaceItem(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReplaceItem) {
		return
	}

	var req replaceItemRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, created, err := s.catalog.ReplaceItem(r.Context(), chi.URLParam(r, "id"), req.Name, req.Price, req.StoreID)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(w, status, item)
}

// handleDeleteItem deletes an item and its tag links.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpDeleteItem) {
		return
	}

	if err := s.catalog.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
