package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsroom/internal/models"
)

func withFeatureMedia(item *models.Item) *models.Item {
	item.Associations = map[string]*models.Association{
		"featuremedia": {
			Type:            models.TypePicture,
			Byline:          "Pic Desk",
			DescriptionText: "Parliament house",
			BodyText:        "Parliament house at dawn",
			Renditions: map[string]models.Rendition{
				"16-9": {
					Href:     "/assets/wide.jpg",
					Width:    1280,
					Height:   720,
					Mimetype: "image/jpeg",
					Media:    "media-16-9",
					POI:      &models.POI{X: 0.4, Y: 0.6},
				},
			},
		},
	}
	return item
}

func TestAtomFeedStructure(t *testing.T) {
	s := testSerializer()
	item := withFeatureMedia(testItem())

	payload, err := s.Atom([]*models.Item{item}, "tok")
	require.NoError(t, err)
	out := string(payload)

	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, `<feed xmlns="http://www.w3.org/2005/Atom"`)
	require.Contains(t, out, `xmlns:dcterms="http://purl.org/dc/terms/"`)
	require.Contains(t, out, "<title><![CDATA[Newsroom Atom Feed]]></title>")

	require.Contains(t, out, "<id>urn:item:1</id>")
	require.Contains(t, out, "<title><![CDATA[Budget passes parliament]]></title>")
	require.Contains(t, out, "<published>2026-04-30T09:00:00Z</published>")
	require.Contains(t, out, "<updated>2026-04-30T10:30:00Z</updated>")
	require.Contains(t, out, "<name>Jo Reporter - WIRE</name>")
	require.Contains(t, out, "<dcterms:valid>start=2026-05-01T12:00:00Z; end=2026-05-31T12:00:00Z; scheme=W3C-DTF</dcterms:valid>")
	require.Contains(t, out, `<category term="Australian News"`)
	require.Contains(t, out, `<content type="html"><![CDATA[<p>The budget passed.</p>]]></content>`)

	require.Contains(t, out, `url="http://api.test/assets/media-16-9?token=tok"`)
	require.Contains(t, out, "<media:credit>Pic Desk</media:credit>")
	require.Contains(t, out, "<mi:x1>0.4</mi:x1>")
	require.Contains(t, out, "<mi:y2>0.6</mi:y2>")
}

func TestAtomEntryIDUsesAncestor(t *testing.T) {
	s := testSerializer()
	item := testItem()
	item.Ancestors = []string{"urn:item:0"}

	payload, err := s.Atom([]*models.Item{item}, "")
	require.NoError(t, err)
	require.Contains(t, string(payload), "<id>urn:item:0</id>")
}

func TestAtomSkipsMalformedItems(t *testing.T) {
	s := testSerializer()

	bad := testItem()
	bad.ID = "urn:item:bad"
	bad.FirstPublished = time.Time{}

	payload, err := s.Atom([]*models.Item{bad, testItem(), nil}, "")
	require.NoError(t, err)

	out := string(payload)
	require.Contains(t, out, "urn:item:1")
	require.NotContains(t, out, "urn:item:bad")
	require.Equal(t, 1, strings.Count(out, "<entry>"))
}

func TestAtomWithoutFeatureMediaOmitsMediaContent(t *testing.T) {
	s := testSerializer()

	payload, err := s.Atom([]*models.Item{testItem()}, "")
	require.NoError(t, err)
	require.NotContains(t, string(payload), "media:content")
}
