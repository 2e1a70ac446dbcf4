package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsroom/internal/models"
	"newsroom/internal/postgres"
)

func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user payload"})
		return
	}
	if user.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user email is required"})
		return
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Token == "" {
		user.Token = uuid.NewString()
	}

	if err := s.users.CreateUser(r.Context(), &user); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user payload"})
		return
	}
	user.ID = id

	if err := s.users.UpdateUser(r.Context(), &user); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
			return
		}
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
