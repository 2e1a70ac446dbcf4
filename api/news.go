package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"newsroom/internal/elasticsearch"
	"newsroom/internal/embeds"
	"newsroom/internal/feeds"
	"newsroom/internal/models"
)

// handleSyndicate serves the syndication feed. The formatter comes from
// the query string; /news/syndicate/{formatter} is the legacy spelling.
func (s *server) handleSyndicate(w http.ResponseWriter, r *http.Request) {
	s.syndicate(w, r, r.URL.Query().Get("formatter"))
}

func (s *server) handleSyndicateLegacy(w http.ResponseWriter, r *http.Request) {
	s.syndicate(w, r, chi.URLParam(r, "formatter"))
}

func (s *server) syndicate(w http.ResponseWriter, r *http.Request, formatter string) {
	format := feeds.ParseFormat(formatter)
	if format == feeds.FormatUnsupported {
		s.unsupportedFormat(w, r, formatter)
		return
	}

	params, err := s.searchParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.es.SearchItems(r.Context(), params)
	if err != nil {
		// query_string syntax errors come back as search failures;
		// the caller sent them, so they get a 400.
		s.log.Warn("search failed", slog.String("query", params.Query), slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid search query"})
		return
	}

	items, err := s.entitledItems(r, result.Items)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	payload, err := s.serializer.Serialize(format, items, tokenFrom(r.Context()))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// entitledItems applies the company's embedded-media profile to every hit.
// Items that fail to rewrite are logged and dropped rather than aborting
// the whole response.
func (s *server) entitledItems(r *http.Request, hits []*models.Item) ([]*models.Item, error) {
	principal := principalFrom(r.Context())

	perms, err := s.resolver.Resolve(r.Context(), principal)
	if err != nil {
		return nil, err
	}

	opts := embeds.Options{}
	if s.cfg.EmbedProductFiltering {
		permitted, err := s.resolver.PermittedProducts(r.Context(), principal.CompanyID, r.URL.Query().Get("type"))
		if err != nil {
			return nil, err
		}
		opts = embeds.Options{ApplyProductGate: true, PermittedProducts: permitted}
	}

	items := make([]*models.Item, 0, len(hits))
	for _, item := range hits {
		if opts.ApplyProductGate && !embeds.FeatureMediaPermitted(item, opts.PermittedProducts) {
			continue
		}
		filtered, err := embeds.Rewrite(item, perms, opts)
		if err != nil {
			s.log.Error("filter item failed, skipping", slog.String("item", item.ID), slog.Any("err", err))
			continue
		}
		items = append(items, filtered)
	}
	return items, nil
}

func (s *server) searchParams(r *http.Request) (elasticsearch.SearchParams, error) {
	q := r.URL.Query()

	size := s.cfg.DefaultPage
	if raw := q.Get("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return elasticsearch.SearchParams{}, errInvalidParam("max_results")
		}
		size = parsed
	}
	if size > s.cfg.MaxPage {
		size = s.cfg.MaxPage
	}

	from := 0
	if raw := q.Get("from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return elasticsearch.SearchParams{}, errInvalidParam("from")
		}
		from = parsed
	}

	return elasticsearch.SearchParams{
		Query:      q.Get("q"),
		Service:    q.Get("service"),
		Subject:    q.Get("subject"),
		Source:     q.Get("source"),
		ExcludeIDs: parseCSV(q.Get("exclude_ids")),
		From:       from,
		Size:       size,
		Start:      parseTime(q.Get("start_date")),
		End:        parseTime(q.Get("end_date")),
	}, nil
}

type paramError string

func (e paramError) Error() string { return "invalid parameter: " + string(e) }

func errInvalidParam(name string) error { return paramError(name) }

// unsupportedFormat answers a bad formatter with the error plus a usage
// block so API consumers can self-correct.
func (s *server) unsupportedFormat(w http.ResponseWriter, r *http.Request, formatter string) {
	base := s.cfg.BaseURL
	payload := map[string]any{
		"error": map[string]any{
			"code":    http.StatusBadRequest,
			"message": "Unsupported formatter: " + strings.TrimSpace(formatter),
		},
		"usage": map[string]any{
			"endpoint":    r.URL.String(),
			"method":      r.Method,
			"description": "Retrieves news items as JSON, ATOM or RSS.",
			"parameters": map[string]string{
				"formatter":  "Desired response format. Accepts 'json', 'atom' or 'rss'.",
				"q":          "Full text query.",
				"start_date": "Earliest version time, RFC 3339 or YYYY-MM-DD.",
				"end_date":   "Latest version time, RFC 3339 or YYYY-MM-DD.",
			},
			"examples": map[string]string{
				"json": base + "/news/syndicate?formatter=json&q=budget&start_date=2026-04-01",
				"atom": base + "/news/syndicate?formatter=atom&start_date=2026-04-01&end_date=2026-05-01",
				"rss":  base + "/news/syndicate?formatter=rss&service=a",
			},
		},
	}
	writeJSON(w, http.StatusBadRequest, payload)
}
