package main

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"newsroom/internal/assets"
)

// handleGetAsset serves a stored media rendition.
func (s *server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	blob, contentType, err := s.blobs.Open(mediaID)
	if err != nil {
		switch {
		case errors.Is(err, assets.ErrInvalidMediaID):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, os.ErrNotExist):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "asset not found"})
		default:
			s.serverError(w, r, err)
		}
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, blob)
}

// handleSaveAsset stores a media rendition pushed by the upstream system.
func (s *server) handleSaveAsset(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	if err := s.blobs.Save(mediaID, r.Body); err != nil {
		if errors.Is(err, assets.ErrInvalidMediaID) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"media": mediaID})
}
