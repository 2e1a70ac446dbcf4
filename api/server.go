package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"newsroom/internal/assets"
	"newsroom/internal/config"
	"newsroom/internal/download"
	"newsroom/internal/elasticsearch"
	"newsroom/internal/entitle"
	"newsroom/internal/feeds"
	"newsroom/internal/models"
	"newsroom/internal/postgres"
)

type server struct {
	log          *slog.Logger
	cfg          *config.API
	es           *elasticsearch.Client
	companies    *postgres.CompanyStore
	users        *postgres.UserStore
	products     *postgres.ProductStore
	history      *postgres.HistoryStore
	resolver     *entitle.Resolver
	serializer   *feeds.Serializer
	orchestrator *download.Orchestrator
	blobs        *assets.Store
	publisher    *kafka.Writer
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.es.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// serverError hides internals from the client; the details go to the log
// only.
func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("internal error",
		slog.String("path", r.URL.Path),
		slog.Any("err", err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, format := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(format, raw); err == nil {
			return &ts
		}
	}
	return nil
}

type contextKey int

const (
	principalKey contextKey = iota
	tokenKey
)

// withAuth resolves the access token to a principal. Requests without a
// valid token never reach the handlers.
func (s *server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing access token"})
			return
		}

		user, err := s.users.GetUserByToken(r.Context(), token)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if user == nil {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid access token"})
			return
		}

		principal := models.Principal{UserID: user.ID, CompanyID: user.CompanyID}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func principalFrom(ctx context.Context) models.Principal {
	principal, _ := ctx.Value(principalKey).(models.Principal)
	return principal
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
