package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"newsroom/internal/models"
)

// handlePush accepts an item from the upstream newsroom system and hands
// it to the ingestion topic. Indexing happens asynchronously in the
// worker.
func (s *server) handlePush(w http.ResponseWriter, r *http.Request) {
	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item payload"})
		return
	}

	if item.ID == "" {
		item.ID = item.GUID
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "item type is required"})
		return
	}

	payload, err := json.Marshal(&item)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(item.ID),
		Value: payload,
	}
	if err := s.publisher.WriteMessages(r.Context(), msg); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.log.Info("item pushed", slog.String("item", item.ID), slog.String("type", item.Type))
	writeJSON(w, http.StatusAccepted, map[string]string{"_id": item.ID})
}
