package feeds

import (
	"encoding/xml"
	"errors"
	"fmt"

	"newsroom/internal/models"
)

type rssFeed struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XmlnsDcterms string     `xml:"xmlns:dcterms,attr"`
	XmlnsMedia   string     `xml:"xmlns:media,attr"`
	XmlnsDc      string     `xml:"xmlns:dc,attr"`
	XmlnsMi      string     `xml:"xmlns:mi,attr"`
	XmlnsContent string     `xml:"xmlns:content,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	GUID        string        `xml:"guid"`
	Title       cdata         `xml:"title"`
	PubDate     string        `xml:"pubDate"`
	Modified    string        `xml:"dcterms:modified"`
	Link        string        `xml:"link"`
	Creator     string        `xml:"dc:creator"`
	Source      rssSource     `xml:"source"`
	Valid       string        `xml:"dcterms:valid"`
	Categories  []string      `xml:"category"`
	Description cdata         `xml:"description"`
	Encoded     cdata         `xml:"content:encoded"`
	Media       *mediaContent `xml:"media:content,omitempty"`
}

type rssSource struct {
	URL  string `xml:"url,attr"`
	Text string `xml:",chardata"`
}

// RSS renders the items as an RSS 2.0 feed. Categories aggregate service,
// subject, place and keywords; malformed items are logged and skipped.
func (s *Serializer) RSS(items []*models.Item, token string) ([]byte, error) {
	feed := rssFeed{
		Version:      "2.0",
		XmlnsDcterms: "http://purl.org/dc/terms/",
		XmlnsMedia:   "http://search.yahoo.com/mrss/",
		XmlnsDc:      "http://purl.org/dc/elements/1.1/",
		XmlnsMi:      "http://schemas.ingestion.microsoft.com/common/",
		XmlnsContent: "http://purl.org/rss/1.0/modules/content/",
		Channel: rssChannel{
			Title:       s.cfg.SiteName + " RSS Feed",
			Description: s.cfg.SiteName + " RSS Feed",
			Link:        s.feedLink("rss"),
		},
	}

	for _, item := range items {
		entry, err := s.rssItem(item, token)
		if err != nil {
			s.skipItem(item, err)
			continue
		}
		feed.Channel.Items = append(feed.Channel.Items, entry)
	}

	payload, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss feed: %w", err)
	}
	return append([]byte(xml.Header), payload...), nil
}

func (s *Serializer) rssItem(item *models.Item, token string) (rssItem, error) {
	if item == nil {
		return rssItem{}, errors.New("nil item")
	}
	if item.FirstPublished.IsZero() {
		return rssItem{}, errors.New("missing firstpublished")
	}

	body, err := s.embedBody(item, token)
	if err != nil {
		return rssItem{}, err
	}

	entry := rssItem{
		GUID:        entryID(item),
		Title:       cdata{Text: item.Headline},
		PubDate:     formatPublish(item.FirstPublished),
		Modified:    formatUpdated(item.VersionCreated),
		Link:        s.itemLink(item.ID),
		Creator:     s.authorName(item),
		Source:      rssSource{URL: s.feedLink("rss"), Text: item.Source},
		Valid:       s.validWindow(item, formatPublish(item.FirstPublished)),
		Description: cdata{Text: item.DescriptionText},
		Encoded:     cdata{Text: body},
		Media:       s.featureMedia(item, token),
	}

	for _, group := range [][]models.CodeName{item.Service, item.Subject, item.Place} {
		for _, cv := range group {
			entry.Categories = append(entry.Categories, cv.Name)
		}
	}
	entry.Categories = append(entry.Categories, item.Keywords...)

	return entry, nil
}
