package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmukherjee/storefront/internal/access"
)

// handleRegister creates a new user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpRegister) {
		return
	}

	var req credentialsRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, user)
}

// handleLogin authenticates a user and returns an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpLogin) {
		return
	}

	var req credentialsRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"access_token": token, "user": user})
}

// handleListUsers returns all users. Password hashes never serialize.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadUsers) {
		return
	}

	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"users": users})
}

// handleGetUser returns a user by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpReadUsers) {
		return
	}

	user, err := s.auth.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// handleDeleteUser removes a user account.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, access.OpDeleteUser) {
		return
	}

	if err := s.auth.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
