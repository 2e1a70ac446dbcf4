package feeds

import (
	"golang.org/x/net/html"

	"newsroom/internal/embeds"
	"newsroom/internal/entitle"
	"newsroom/internal/models"
)

// cdata wraps text in a CDATA section.
type cdata struct {
	Text string `xml:",cdata"`
}

// mediaContent is the media:content element shared by the ATOM and RSS
// feeds, carrying the feature image with its credit metadata and optional
// focal region.
type mediaContent struct {
	URL    string       `xml:"url,attr"`
	Type   string       `xml:"type,attr,omitempty"`
	Medium string       `xml:"medium,attr"`
	Credit string       `xml:"media:credit,omitempty"`
	Title  string       `xml:"media:title,omitempty"`
	Text   string       `xml:"media:text,omitempty"`
	Focal  *focalRegion `xml:"mi:focalRegion,omitempty"`
}

type focalRegion struct {
	X1 float64 `xml:"mi:x1"`
	X2 float64 `xml:"mi:x2"`
	Y1 float64 `xml:"mi:y1"`
	Y2 float64 `xml:"mi:y2"`
}

// featureMedia builds the media:content element from the item's
// featuremedia 16-9 rendition, or nil when there is none.
func (s *Serializer) featureMedia(item *models.Item, token string) *mediaContent {
	assoc := item.FeatureMedia()
	if assoc == nil {
		return nil
	}
	image, ok := assoc.Renditions["16-9"]
	if !ok {
		return nil
	}

	media := &mediaContent{
		URL:    s.assets.AssetURL(image.Media, token),
		Type:   image.Mimetype,
		Medium: "image",
		Credit: assoc.Byline,
		Title:  assoc.DescriptionText,
		Text:   assoc.BodyText,
	}
	if image.POI != nil {
		media.Focal = &focalRegion{
			X1: image.POI.X,
			X2: image.POI.X,
			Y1: image.POI.Y,
			Y2: image.POI.Y,
		}
	}
	return media
}

// embedBody rewrites the src of every comment-marked embed in the body to
// the public asset endpoint so feed consumers can fetch the media.
func (s *Serializer) embedBody(item *models.Item, token string) (string, error) {
	body, changed, err := embeds.UpdateEmbeds(item.BodyHTML, func(elem *html.Node, embedID string, _ entitle.Tag) bool {
		assoc := item.Associations[embedID]
		if assoc == nil {
			return false
		}
		media := pickMediaReference(assoc)
		if media == "" {
			return false
		}
		embeds.SetAttr(elem, "src", s.assets.AssetURL(media, token))
		return true
	})
	if err != nil {
		return "", err
	}
	if !changed {
		return item.BodyHTML, nil
	}
	return body, nil
}

// pickMediaReference prefers the original rendition's media id and falls
// back to any rendition carrying one.
func pickMediaReference(assoc *models.Association) string {
	if r, ok := assoc.Renditions["original"]; ok && r.Media != "" {
		return r.Media
	}
	for _, r := range assoc.Renditions {
		if r.Media != "" {
			return r.Media
		}
	}
	return ""
}
