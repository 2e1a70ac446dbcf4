package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"newsroom/internal/embeds"
	"newsroom/internal/entitle"
	"newsroom/internal/models"
)

// NINJSFeed renders the items as one JSON document. Items that fail to
// transform are logged and skipped.
func (s *Serializer) NINJSFeed(items []*models.Item, token string) ([]byte, error) {
	docs := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		doc, err := s.NINJSItem(item, token)
		if err != nil {
			s.skipItem(item, err)
			continue
		}
		docs = append(docs, doc)
	}

	payload, err := json.Marshal(map[string]any{"_items": docs})
	if err != nil {
		return nil, fmt.Errorf("marshal ninjs feed: %w", err)
	}
	return payload, nil
}

// NINJSItem renders a single filtered item as NINJS. The structured
// associations are kept in the document; embedded image references are
// rewired to the widest available rendition and audio/video anchors are
// cleaned up so the embedded markup validates.
func (s *Serializer) NINJSItem(item *models.Item, token string) ([]byte, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}

	out := item.Clone()
	s.removeInternalRenditions(out)
	if err := s.rewireEmbeds(out); err != nil {
		return nil, err
	}
	s.rewireFeatureMedia(out, token)

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal ninjs item %s: %w", item.ID, err)
	}
	return payload, nil
}

// removeInternalRenditions keeps only the renditions the API is allowed to
// expose. Nothing is dropped when no allow-list is configured.
func (s *Serializer) removeInternalRenditions(item *models.Item) {
	if len(s.cfg.AllowedRenditions) == 0 {
		return
	}
	allowed := make(map[string]bool, len(s.cfg.AllowedRenditions)+1)
	for _, name := range s.cfg.AllowedRenditions {
		allowed[name] = true
	}
	// the original stays available for embed src resolution
	allowed["original"] = true

	for key, assoc := range item.Associations {
		if assoc == nil {
			continue
		}
		copied := assoc.Clone()
		for name := range copied.Renditions {
			if !allowed[name] {
				delete(copied.Renditions, name)
			}
		}
		item.Associations[key] = copied
	}
}

// rewireEmbeds updates the embedded media markup in the body: image src
// and srcset point at the best renditions of the association, audio and
// video elements lose the attributes that break markup validation.
func (s *Serializer) rewireEmbeds(item *models.Item) error {
	body, changed, err := embeds.UpdateEmbeds(item.BodyHTML, func(elem *html.Node, embedID string, kind entitle.Tag) bool {
		touched := setAttrIfChanged(elem, "id", embedID)
		if kind != entitle.TagImage {
			for _, key := range []string{"alt", "width", "height"} {
				if embeds.Attr(elem, key) != "" {
					embeds.RemoveAttr(elem, key)
					touched = true
				}
			}
			return touched
		}

		assoc := item.Associations[embedID]
		if assoc == nil {
			return touched
		}
		if src := widestRenditionHref(assoc); src != "" {
			touched = setAttrIfChanged(elem, "src", src) || touched
		} else {
			s.log.Warn("no rendition href for embed",
				slog.String("item", item.ID),
				slog.String("embed", embedID),
			)
		}
		if srcset := renditionSrcSet(assoc); srcset != "" {
			touched = setAttrIfChanged(elem, "srcset", srcset) || touched
			touched = setAttrIfChanged(elem, "sizes", "80vw") || touched
		}
		return touched
	})
	if err != nil {
		return err
	}
	if changed {
		item.BodyHTML = body
	}
	return nil
}

// rewireFeatureMedia points the feature media rendition hrefs at the
// public asset endpoint.
func (s *Serializer) rewireFeatureMedia(item *models.Item, token string) {
	assoc := item.FeatureMedia()
	if assoc == nil {
		return
	}
	copied := assoc.Clone()
	for name, r := range copied.Renditions {
		if r.Media == "" {
			continue
		}
		r.Href = s.assets.AssetURL(r.Media, token)
		copied.Renditions[name] = r
	}
	item.Associations["featuremedia"] = copied
}

// setAttrIfChanged writes the attribute only when its value differs, so an
// already rewired body is not re-rendered.
func setAttrIfChanged(elem *html.Node, key, val string) bool {
	if embeds.Attr(elem, key) == val {
		return false
	}
	embeds.SetAttr(elem, key, val)
	return true
}

// widestRenditionHref returns the href of the widest rendition.
func widestRenditionHref(assoc *models.Association) string {
	widest := -1
	href := ""
	for _, r := range assoc.Renditions {
		if r.Width > widest && r.Href != "" {
			widest = r.Width
			href = strings.TrimPrefix(r.Href, "/")
		}
	}
	if widest <= 0 {
		return ""
	}
	return href
}

// renditionSrcSet lists every rendition with a width as "href Nw".
func renditionSrcSet(assoc *models.Association) string {
	var parts []string
	for _, r := range assoc.Renditions {
		if r.Href != "" && r.Width > 0 {
			parts = append(parts, strings.TrimPrefix(r.Href, "/")+" "+strconv.Itoa(r.Width)+"w")
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
