package models

import "time"

// Association media types that can be embedded in a story body.
const (
	TypePicture     = "picture"
	TypeVideo       = "video"
	TypeAudio       = "audio"
	TypeSocialMedia = "social_media"
)

// Item represents the canonical news document stored in Elasticsearch.
type Item struct {
	ID              string                  `json:"_id"`
	GUID            string                  `json:"guid,omitempty"`
	Type            string                  `json:"type,omitempty"`
	Headline        string                  `json:"headline,omitempty"`
	Slugline        string                  `json:"slugline,omitempty"`
	Byline          string                  `json:"byline,omitempty"`
	Source          string                  `json:"source,omitempty"`
	DescriptionText string                  `json:"description_text,omitempty"`
	BodyHTML        string                  `json:"body_html,omitempty"`
	Pubstatus       string                  `json:"pubstatus,omitempty"`
	Version         int                     `json:"version,omitempty"`
	Ancestors       []string                `json:"ancestors,omitempty"`
	FirstPublished  time.Time               `json:"firstpublished,omitempty"`
	VersionCreated  time.Time               `json:"versioncreated"`
	Service         []CodeName              `json:"service,omitempty"`
	Subject         []CodeName              `json:"subject,omitempty"`
	Place           []CodeName              `json:"place,omitempty"`
	Keywords        []string                `json:"keywords,omitempty"`
	Associations    map[string]*Association `json:"associations,omitempty"`
	ESHighlight     *Highlight              `json:"es_highlight,omitempty"`
}

// CodeName is a controlled-vocabulary entry (service, subject, place).
type CodeName struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Association is one media object embedded in or attached to an item.
type Association struct {
	Type            string               `json:"type"`
	Mimetype        string               `json:"mimetype,omitempty"`
	Byline          string               `json:"byline,omitempty"`
	DescriptionText string               `json:"description_text,omitempty"`
	BodyText        string               `json:"body_text,omitempty"`
	Renditions      map[string]Rendition `json:"renditions,omitempty"`
	Products        []CodeName           `json:"products,omitempty"`
}

// Clone returns a deep copy of the association safe to mutate.
func (a *Association) Clone() *Association {
	out := *a
	if a.Renditions != nil {
		out.Renditions = make(map[string]Rendition, len(a.Renditions))
		for k, v := range a.Renditions {
			out.Renditions[k] = v
		}
	}
	out.Products = append([]CodeName(nil), a.Products...)
	return &out
}

// Rendition is a single downloadable variant of a media object.
type Rendition struct {
	Href     string `json:"href,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
	Media    string `json:"media,omitempty"`
	POI      *POI   `json:"poi,omitempty"`
}

// POI marks the focal point of a picture rendition.
type POI struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Highlight carries search-engine highlight fragments rendered separately
// from the main body.
type Highlight struct {
	BodyHTML []string `json:"body_html,omitempty"`
}

// Clone returns a copy of the item with its own associations map. Nested
// association values are shared; callers replacing an association must
// assign a new value rather than mutate the shared one.
func (i *Item) Clone() *Item {
	out := *i
	if i.Associations != nil {
		out.Associations = make(map[string]*Association, len(i.Associations))
		for k, v := range i.Associations {
			out.Associations[k] = v
		}
	}
	if i.ESHighlight != nil {
		h := Highlight{BodyHTML: append([]string(nil), i.ESHighlight.BodyHTML...)}
		out.ESHighlight = &h
	}
	return &out
}

// FeatureMedia returns the featuremedia association when it carries
// renditions, else nil.
func (i *Item) FeatureMedia() *Association {
	assoc := i.Associations["featuremedia"]
	if assoc == nil || len(assoc.Renditions) == 0 {
		return nil
	}
	return assoc
}
