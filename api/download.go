package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"newsroom/internal/feeds"
)

// handleDownload streams a zip archive of the requested items, one
// serialized file per item.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ids := parseCSV(chi.URLParam(r, "ids"))
	if len(ids) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no item ids given"})
		return
	}

	formatter := r.URL.Query().Get("format")
	format := feeds.ParseFormat(formatter)
	if format == feeds.FormatUnsupported {
		s.unsupportedFormat(w, r, formatter)
		return
	}

	section := r.URL.Query().Get("type")
	archive, err := s.orchestrator.Export(r.Context(), ids, format, section, principalFrom(r.Context()), tokenFrom(r.Context()))
	if err != nil {
		if errors.Is(err, feeds.ErrUnsupportedFormat) {
			s.unsupportedFormat(w, r, formatter)
			return
		}
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.orchestrator.ArchiveName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	w.Write(archive)
}
