package embeds

import (
	"golang.org/x/net/html"

	"newsroom/internal/entitle"
)

// UpdateFunc mutates one embedded media element. It returns true when the
// element was changed.
type UpdateFunc func(elem *html.Node, embedID string, kind entitle.Tag) bool

// UpdateEmbeds walks the markup and calls update for every media element
// belonging to a comment-marked embed. The returned markup is re-rendered
// only when at least one element changed.
func UpdateEmbeds(fragment string, update UpdateFunc) (string, bool, error) {
	if fragment == "" {
		return fragment, false, nil
	}
	root, err := parseBody(fragment)
	if err != nil {
		return "", false, err
	}

	changed := false
	for _, m := range locate(root) {
		if m.Kind == entitle.TagSocialMedia {
			continue
		}
		for c := m.Anchor.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if _, ok := mediaTag(c.Data); !ok {
				continue
			}
			if update(c, m.EmbedID, m.Kind) {
				changed = true
			}
		}
	}

	if !changed {
		return fragment, false, nil
	}
	rendered, err := renderBody(root)
	if err != nil {
		return "", false, err
	}
	return rendered, true, nil
}

// Attr helpers exported for callers rewiring embed markup.

// Attr returns the attribute value, or "" when absent.
func Attr(n *html.Node, key string) string { return getAttr(n, key) }

// SetAttr sets or replaces an attribute on a node.
func SetAttr(n *html.Node, key, val string) { setAttr(n, key, val) }

// RemoveAttr drops an attribute from a node when present.
func RemoveAttr(n *html.Node, key string) { removeAttr(n, key) }
