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

func (s *server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.ListCompanies(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.companies.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if company == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "company not found"})
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid company payload"})
		return
	}
	if company.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "company name is required"})
		return
	}
	if company.ID == "" {
		company.ID = uuid.NewString()
	}

	if err := s.companies.CreateCompany(r.Context(), &company); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

// handleUpdateCompany replaces the stored company and drops any cached
// permission profile so new entitlements apply immediately.
func (s *server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var company models.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid company payload"})
		return
	}
	company.ID = id

	if err := s.companies.UpdateCompany(r.Context(), &company); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "company not found"})
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.resolver.Invalidate(id)
	writeJSON(w, http.StatusOK, company)
}

func (s *server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.companies.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "company not found"})
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.resolver.Invalidate(id)
	w.WriteHeader(http.StatusNoContent)
}
