package embeds

import (
	"regexp"

	"golang.org/x/net/html"

	"newsroom/internal/entitle"
)

// Editorial tooling emits embed markers verbatim, e.g.
//
//	<!-- EMBED START Video {id: "editor_1"} -->
//
// The spacing and braces are a stable contract; the expression must match
// that grammar exactly.
var (
	embedStartRe = regexp.MustCompile(` EMBED START (Video|Audio|Image) \{id: "editor_([0-9]+)"`)
	embedEndRe   = regexp.MustCompile(` EMBED END (Video|Audio|Image) \{id: "editor_([0-9]+)"`)
)

// Marker is one located embed: a comment-marked figure or a social media
// embed block.
type Marker struct {
	Kind    entitle.Tag
	EmbedID string
	// Comment is the marker comment node; nil for social media blocks.
	Comment *html.Node
	// Anchor is the element carrying the embed: the figure following the
	// comment, or the div.embed-block container itself.
	Anchor *html.Node
}

var markerKinds = map[string]entitle.Tag{
	"Video": entitle.TagVideo,
	"Audio": entitle.TagAudio,
	"Image": entitle.TagImage,
}

// mediaTag maps a DOM tag name inside a figure to its capability tag.
func mediaTag(name string) (entitle.Tag, bool) {
	switch name {
	case "video":
		return entitle.TagVideo, true
	case "audio":
		return entitle.TagAudio, true
	case "img", "picture":
		return entitle.TagImage, true
	}
	return "", false
}

// Locate parses the markup and returns every embed marker in document
// order. Re-parsing the same input yields the same sequence.
func Locate(fragment string) ([]Marker, error) {
	root, err := parseBody(fragment)
	if err != nil {
		return nil, err
	}
	return locate(root), nil
}

func locate(root *html.Node) []Marker {
	var markers []Marker
	walk(root, func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			m := embedStartRe.FindStringSubmatch(n.Data)
			if m == nil {
				return
			}
			anchor := nextElementSibling(n)
			if anchor == nil {
				return
			}
			markers = append(markers, Marker{
				Kind:    markerKinds[m[1]],
				EmbedID: "editor_" + m[2],
				Comment: n,
				Anchor:  anchor,
			})
		case html.ElementNode:
			if n.Data == "div" && hasClass(n, "embed-block") {
				markers = append(markers, Marker{
					Kind:   entitle.TagSocialMedia,
					Anchor: n,
				})
			}
		}
	})
	return markers
}
