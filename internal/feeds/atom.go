package feeds

import (
	"encoding/xml"
	"errors"
	"fmt"

	"newsroom/internal/models"
)

type atomFeed struct {
	XMLName      xml.Name    `xml:"feed"`
	Xmlns        string      `xml:"xmlns,attr"`
	XmlnsDcterms string      `xml:"xmlns:dcterms,attr"`
	XmlnsMedia   string      `xml:"xmlns:media,attr"`
	XmlnsMi      string      `xml:"xmlns:mi,attr"`
	Title        cdata       `xml:"title"`
	Updated      string      `xml:"updated"`
	Author       atomAuthor  `xml:"author"`
	ID           string      `xml:"id"`
	Link         atomLink    `xml:"link"`
	Entries      []atomEntry `xml:"entry"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      cdata          `xml:"title"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Link       atomLink       `xml:"link"`
	Author     atomAuthor     `xml:"author"`
	Rights     string         `xml:"rights"`
	Valid      string         `xml:"dcterms:valid"`
	Categories []atomCategory `xml:"category"`
	Summary    cdata          `xml:"summary"`
	Content    atomContent    `xml:"content"`
	Media      *mediaContent  `xml:"media:content,omitempty"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Text string `xml:",cdata"`
}

// Atom renders the items as an Atom feed with dcterms validity windows and
// media metadata. Malformed items are logged and skipped.
func (s *Serializer) Atom(items []*models.Item, token string) ([]byte, error) {
	feed := atomFeed{
		Xmlns:        "http://www.w3.org/2005/Atom",
		XmlnsDcterms: "http://purl.org/dc/terms/",
		XmlnsMedia:   "http://search.yahoo.com/mrss/",
		XmlnsMi:      "http://schemas.ingestion.microsoft.com/common/",
		Title:        cdata{Text: s.cfg.SiteName + " Atom Feed"},
		Updated:      formatUpdated(s.now()),
		Author:       atomAuthor{Name: s.cfg.SiteName},
		ID:           s.feedLink("atom"),
		Link:         atomLink{Href: s.feedLink("atom"), Rel: "self"},
	}

	for _, item := range items {
		entry, err := s.atomEntry(item, token)
		if err != nil {
			s.skipItem(item, err)
			continue
		}
		feed.Entries = append(feed.Entries, entry)
	}

	payload, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal atom feed: %w", err)
	}
	return append([]byte(xml.Header), payload...), nil
}

func (s *Serializer) atomEntry(item *models.Item, token string) (atomEntry, error) {
	if item == nil {
		return atomEntry{}, errors.New("nil item")
	}
	if item.FirstPublished.IsZero() {
		return atomEntry{}, errors.New("missing firstpublished")
	}

	body, err := s.embedBody(item, token)
	if err != nil {
		return atomEntry{}, err
	}

	entry := atomEntry{
		ID:        entryID(item),
		Title:     cdata{Text: item.Headline},
		Published: formatISO(item.FirstPublished),
		Updated:   formatUpdated(item.VersionCreated),
		Link:      atomLink{Href: s.itemLink(item.ID), Rel: "self"},
		Author:    atomAuthor{Name: s.authorName(item)},
		Rights:    item.Source,
		Valid:     s.validWindow(item, formatISO(s.now())),
		Summary:   cdata{Text: item.DescriptionText},
		Content:   atomContent{Type: "html", Text: body},
		Media:     s.featureMedia(item, token),
	}
	for _, svc := range item.Service {
		entry.Categories = append(entry.Categories, atomCategory{Term: svc.Name})
	}
	return entry, nil
}
