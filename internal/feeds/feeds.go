package feeds

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"newsroom/internal/models"
)

// Format is the closed set of supported wire formats.
type Format int

const (
	FormatUnsupported Format = iota
	FormatATOM
	FormatRSS
	FormatJSON
)

// ErrUnsupportedFormat is returned for formatter values outside the
// supported set.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat maps a formatter query value onto the Format enum.
func ParseFormat(raw string) Format {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ATOM":
		return FormatATOM
	case "RSS":
		return FormatRSS
	case "JSON", "NINJS":
		return FormatJSON
	}
	return FormatUnsupported
}

// String returns the canonical formatter name.
func (f Format) String() string {
	switch f {
	case FormatATOM:
		return "ATOM"
	case FormatRSS:
		return "RSS"
	case FormatJSON:
		return "JSON"
	}
	return "unsupported"
}

// ContentType returns the response content type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatATOM:
		return "application/atom+xml"
	case FormatRSS:
		return "application/rss+xml"
	case FormatJSON:
		return "application/json"
	}
	return "application/json"
}

// Ext returns the file extension used in download archives.
func (f Format) Ext() string {
	switch f {
	case FormatATOM, FormatRSS:
		return "xml"
	case FormatJSON:
		return "json"
	}
	return "bin"
}

// Config carries the feed-level settings shared by every serializer.
type Config struct {
	SiteName          string
	CopyrightHolder   string
	BaseURL           string
	AllowedRenditions []string
}

// AssetURLResolver builds a public URL for a stored media reference.
type AssetURLResolver interface {
	AssetURL(mediaID, token string) string
}

// Serializer renders permission-filtered items into wire documents. A
// malformed item never aborts a batch: it is logged with its id and
// skipped.
type Serializer struct {
	cfg    Config
	assets AssetURLResolver
	log    *slog.Logger
	now    func() time.Time
}

// NewSerializer builds a serializer.
func NewSerializer(cfg Config, assets AssetURLResolver, log *slog.Logger) *Serializer {
	return &Serializer{cfg: cfg, assets: assets, log: log, now: time.Now}
}

// Serialize dispatches on the format enum. Items are expected to be
// already permission-filtered.
func (s *Serializer) Serialize(format Format, items []*models.Item, token string) ([]byte, error) {
	switch format {
	case FormatATOM:
		return s.Atom(items, token)
	case FormatRSS:
		return s.RSS(items, token)
	case FormatJSON:
		return s.NINJSFeed(items, token)
	}
	return nil, ErrUnsupportedFormat
}

// SerializeItem renders a single item, used by the download archive where
// each item becomes its own file.
func (s *Serializer) SerializeItem(format Format, item *models.Item, token string) ([]byte, error) {
	switch format {
	case FormatATOM:
		return s.Atom([]*models.Item{item}, token)
	case FormatRSS:
		return s.RSS([]*models.Item{item}, token)
	case FormatJSON:
		return s.NINJSItem(item, token)
	}
	return nil, ErrUnsupportedFormat
}

func (s *Serializer) itemLink(itemID string) string {
	return s.cfg.BaseURL + "/news/item/" + itemID
}

func (s *Serializer) feedLink(formatter string) string {
	return s.cfg.BaseURL + "/news/syndicate?formatter=" + formatter
}

// entryID prefers the first ancestor so the id stays constant across the
// update history of a story.
func entryID(item *models.Item) string {
	if len(item.Ancestors) > 0 {
		return item.Ancestors[0]
	}
	return item.ID
}

// authorName resolves the byline with source and copyright-holder
// fallbacks.
func (s *Serializer) authorName(item *models.Item) string {
	if item.Byline != "" {
		name := item.Byline
		if item.Source != "" && !strings.EqualFold(s.cfg.CopyrightHolder, item.Source) {
			name += " - " + item.Source
		}
		return name
	}
	if item.Source != "" {
		return item.Source
	}
	return s.cfg.CopyrightHolder
}

// validWindow builds the dcterms:valid range: a 30-day future window for
// usable items, a window ending in the past for anything else so
// consumers treat the story as withdrawn.
func (s *Serializer) validWindow(item *models.Item, start string) string {
	now := s.now().UTC()
	if item.Pubstatus == "usable" {
		end := formatISO(now.Add(30 * 24 * time.Hour))
		return "start=" + start + "; end=" + end + "; scheme=W3C-DTF"
	}
	return "start=" + formatISO(now) + "; end=" + formatISO(now.Add(-30*24*time.Hour)) + "; scheme=W3C-DTF"
}

func formatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}

func formatUpdated(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}

func formatPublish(t time.Time) string {
	return t.Format(time.RFC1123Z)
}

func (s *Serializer) skipItem(item *models.Item, err error) {
	id := ""
	if item != nil {
		id = item.ID
	}
	s.log.Error("serialize item failed, skipping",
		slog.String("item", id),
		slog.Any("err", err),
	)
}
