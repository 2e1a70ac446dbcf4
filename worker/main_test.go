package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"newsroom/internal/config"
	"newsroom/internal/models"
)

type stubIndexer struct {
	items []*models.Item
}

func (s *stubIndexer) IndexItem(_ context.Context, item *models.Item) error {
	s.items = append(s.items, item)
	return nil
}

func workerConfig() *config.Worker {
	return &config.Worker{
		Common: config.Common{
			ElasticsearchAddr:  "http://test",
			ElasticsearchIndex: "items",
		},
		KeywordLimit:     5,
		KeywordMinLength: 4,
	}
}

func TestProcessMessageIndexesItem(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	idx := &stubIndexer{}

	payload := models.Item{
		ID:             "urn:item:1",
		Type:           "text",
		Headline:       "Budget passes parliament",
		BodyHTML:       "<p>The federal budget passed parliament after a marathon session.</p>",
		VersionCreated: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(&payload)
	require.NoError(t, err)

	msg := kafka.Message{Value: data}

	require.NoError(t, processMessage(context.Background(), log, idx, workerConfig(), msg))
	require.Len(t, idx.items, 1)

	item := idx.items[0]
	require.Equal(t, "urn:item:1", item.ID)
	require.Equal(t, "Budget passes parliament", item.Headline)
	require.NotEmpty(t, item.Keywords)
	require.NotEmpty(t, item.DescriptionText)
	require.NotContains(t, item.DescriptionText, "<p>")
}

func TestProcessMessageRejectsInvalidPayloads(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	idx := &stubIndexer{}
	cfg := workerConfig()

	require.Error(t, processMessage(context.Background(), log, idx, cfg, kafka.Message{Value: []byte("not json")}))

	data, err := json.Marshal(&models.Item{ID: "x", Type: "text"})
	require.NoError(t, err)
	require.Error(t, processMessage(context.Background(), log, idx, cfg, kafka.Message{Value: data}))

	data, err = json.Marshal(&models.Item{ID: "x", Headline: "no type"})
	require.NoError(t, err)
	require.Error(t, processMessage(context.Background(), log, idx, cfg, kafka.Message{Value: data}))

	require.Empty(t, idx.items)
}

func TestNormalizeItemFillsDefaults(t *testing.T) {
	item := &models.Item{
		GUID:     "urn:item:2",
		Type:     "text",
		Headline: "Storm closes coastal roads across the region",
	}

	require.NoError(t, normalizeItem(item, workerConfig()))

	require.Equal(t, "urn:item:2", item.ID)
	require.Equal(t, 1, item.Version)
	require.False(t, item.VersionCreated.IsZero())
	require.Equal(t, item.VersionCreated, item.FirstPublished)
	require.NotEmpty(t, item.Keywords)
}

func TestNormalizeItemDescriptionKeepsValidUTF8(t *testing.T) {
	item := &models.Item{
		ID:       "urn:item:utf8",
		Type:     "text",
		Headline: "Многоязычный заголовок",
		BodyHTML: "<p>" + strings.Repeat("Жаркое лето в Сиднее. ", 30) + "</p>",
	}

	require.NoError(t, normalizeItem(item, workerConfig()))

	require.True(t, utf8.ValidString(item.DescriptionText))
	require.LessOrEqual(t, len([]rune(item.DescriptionText)), 200)
}

func TestNormalizeItemGeneratesIDWhenMissing(t *testing.T) {
	item := &models.Item{
		Type:     "text",
		Headline: "Headline only",
	}

	require.NoError(t, normalizeItem(item, workerConfig()))
	require.NotEmpty(t, item.ID)
	require.Equal(t, item.ID, item.GUID)
}

func TestNormalizeItemKeepsExistingKeywords(t *testing.T) {
	item := &models.Item{
		ID:       "urn:item:3",
		Type:     "text",
		Headline: "Election results delayed by recount",
		Keywords: []string{"election"},
	}

	require.NoError(t, normalizeItem(item, workerConfig()))
	require.Equal(t, []string{"election"}, item.Keywords)
}
