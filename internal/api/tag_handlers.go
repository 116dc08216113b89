package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmukherjee/storefront/internal/access"
	"github.com/tmukherjee/storefront/internal/models"
)

// tagDetail is a tag with its linked items, returned by single-tag reads.
type tagDetail struct {
	models.Tag
	Items []models.Item `json:"items"`
}

// handleListTags returns all tags across all stores.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	tags, err := s.catalog.ListTags(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"tags": tags})
}

// handleGetTag returns a tag with its linked items.
func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	id := chi.URLParam(r, "id")
	tag, err := s.catalog.GetTag(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := s.catalog.ListTagItems(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, tagDetail{Tag: *tag, Items: items})
}

// handleDeleteTag deletes a tag once nothing links to it.
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpDeleteTag) {
		return
	}

	if err := s.catalog.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}

// handleLinkItemTag links an item to a tag from the same store.
func (s *Server) handleLinkItemTag(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpLinkTag) {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	tagID := chi.URLParam(r, "tagID")
	if err := s.catalog.LinkItemTag(r.Context(), itemID, tagID); err != nil {
		respondError(w, err)
		return
	}

	tag, err := s.catalog.GetTag(r.Context(), tagID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, tag)
}

// handleUnlinkItemTag removes the link between an item and a tag.
func (s *Server) handleUnlinkItemTag(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpUnlinkTag) {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	tagID := chi.URLParam(r, "tagID")
	if err := s.catalog.UnlinkItemTag(r.Context(), itemID, tagID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "item removed from tag"})
}
