package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsroom/internal/models"
)

func TestRSSFeedStructure(t *testing.T) {
	s := testSerializer()
	item := withFeatureMedia(testItem())
	item.Place = []models.CodeName{{Code: "NSW", Name: "New South Wales"}}

	payload, err := s.RSS([]*models.Item{item}, "tok")
	require.NoError(t, err)
	out := string(payload)

	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, `<rss version="2.0"`)
	require.Contains(t, out, `xmlns:content="http://purl.org/rss/1.0/modules/content/"`)
	require.Contains(t, out, "<title>Newsroom RSS Feed</title>")

	require.Contains(t, out, "<guid>urn:item:1</guid>")
	require.Contains(t, out, "<pubDate>Thu, 30 Apr 2026 09:00:00 +0000</pubDate>")
	require.Contains(t, out, "<dcterms:modified>2026-04-30T10:30:00Z</dcterms:modified>")
	require.Contains(t, out, "<dc:creator>Jo Reporter - WIRE</dc:creator>")
	require.Contains(t, out, "<link>http://api.test/news/item/urn:item:1</link>")
	require.Contains(t, out, "<content:encoded><![CDATA[<p>The budget passed.</p>]]></content:encoded>")

	// categories aggregate service, subject, place and keywords
	require.Contains(t, out, "<category>Australian News</category>")
	require.Contains(t, out, "<category>economy</category>")
	require.Contains(t, out, "<category>New South Wales</category>")
	require.Contains(t, out, "<category>budget</category>")

	require.Contains(t, out, `url="http://api.test/assets/media-16-9?token=tok"`)
}

func TestRSSSkipsMalformedItems(t *testing.T) {
	s := testSerializer()

	bad := testItem()
	bad.ID = "urn:item:bad"
	bad.FirstPublished = time.Time{}

	payload, err := s.RSS([]*models.Item{bad, testItem()}, "")
	require.NoError(t, err)

	out := string(payload)
	require.NotContains(t, out, "urn:item:bad")
	require.Equal(t, 1, strings.Count(out, "<item>"))
}
