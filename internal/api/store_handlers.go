package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmukherjee/storefront/internal/access"
)

// handleListStores returns all stores.
func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	stores, err := s.catalog.ListStores(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"stores": stores})
}

// handleCreateStore creates a new store.
func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpCreateStore) {
		return
	}

	var req createStoreRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	store, err := s.catalog.CreateStore(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, store)
}

// handleGetStore returns a store by ID.
func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	store, err := s.catalog.GetStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, store)
}

// handleDeleteStore deletes a store and everything it owns.
func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpDeleteStore) {
		return
	}

	if err := s.catalog.DeleteStore(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "store deleted"})
}

// handleListStoreTags returns the tags owned by a store.
func (s *Server) handleListStoreTags(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadCatalog) {
		return
	}

	tags, err := s.catalog.ListStoreTags(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"tags": tags})
}

// handleCreateStoreTag creates a tag scoped to a store.
func (s *Server) handleCreateStoreTag(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpCreateTag) {
		return
	}

	var req createTagRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	tag, err := s.catalog.CreateTag(r.Context(), req.Name, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, tag)
}
