package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleItemHistory lists the download audit trail of one item.
func (s *server) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.ListForItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
