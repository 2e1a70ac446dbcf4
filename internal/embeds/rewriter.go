package embeds

import (
	"strings"

	"golang.org/x/net/html"

	"newsroom/internal/entitle"
	"newsroom/internal/models"
)

const (
	disabledClass   = "disabled-embed"
	disableDownload = "data-disable-download"
)

// Options control the per-embed product gate of Rewrite.
type Options struct {
	// ApplyProductGate enables the product-code intersection check on
	// editor embeds, independent of the capability flags.
	ApplyProductGate bool
	// PermittedProducts are the upstream product codes the requesting
	// company is entitled to.
	PermittedProducts []string
}

// Rewrite returns a copy of the item with embedded media the company may
// not see or download stripped from both the markup and the associations
// map. The input item is never mutated. Media disallowed for display stays
// in the markup behind a disabling class; media disallowed for download is
// removed outright, together with its marker comments and its association
// entry, since the structured feed has no markup to hide it in.
//
// Applying Rewrite to its own output is a no-op.
func Rewrite(item *models.Item, perms models.Permissions, opts Options) (*models.Item, error) {
	display := entitle.EffectiveTags(perms, entitle.AxisDisplay)
	download := entitle.EffectiveTags(perms, entitle.AxisDownload)

	out := item.Clone()

	if out.BodyHTML != "" {
		rewritten, changed, err := rewriteMarkup(out.BodyHTML, display, download)
		if err != nil {
			return nil, err
		}
		if changed {
			out.BodyHTML = rewritten
		}
	}

	// Highlight fragments are rendered separately from the body and need
	// the same treatment.
	if out.ESHighlight != nil {
		for i, fragment := range out.ESHighlight.BodyHTML {
			rewritten, changed, err := rewriteMarkup(fragment, display, download)
			if err != nil {
				return nil, err
			}
			if changed {
				out.ESHighlight.BodyHTML[i] = rewritten
			}
		}
	}

	pruneAssociations(out, download, opts)
	return out, nil
}

func rewriteMarkup(fragment string, display, download entitle.TagSet) (string, bool, error) {
	root, err := parseBody(fragment)
	if err != nil {
		return "", false, err
	}

	changed := false
	var removed []Marker
	for _, m := range locate(root) {
		if m.Kind == entitle.TagSocialMedia {
			if !display.Allows(entitle.TagSocialMedia) && addClass(m.Anchor, disabledClass) {
				changed = true
			}
			if !download.Allows(entitle.TagSocialMedia) {
				if bq := firstDescendant(m.Anchor, "blockquote"); bq != nil && getAttr(bq, disableDownload) != "true" {
					setAttr(bq, disableDownload, "true")
					changed = true
				}
			}
			continue
		}

		if !display.Allows(m.Kind) && addClass(m.Anchor, disabledClass) {
			changed = true
		}
		if !download.Allows(m.Kind) {
			if elem := blockedMediaChild(m.Anchor, download); elem != nil {
				if getAttr(elem, disableDownload) != "true" {
					setAttr(elem, disableDownload, "true")
					changed = true
				}
				removed = append(removed, m)
			}
		}
	}

	// Final pass: anything flagged on the download axis disappears from
	// the markup entirely.
	var doomed []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && getAttr(n, disableDownload) == "true" {
			doomed = append(doomed, n)
		}
	})
	for _, n := range doomed {
		n.Parent.RemoveChild(n)
		changed = true
	}

	// Markers whose media was excised must go too: the association entry
	// is deleted as well, and a marker may only reference an existing
	// embed.
	for _, m := range removed {
		if m.Comment != nil && m.Comment.Parent != nil {
			m.Comment.Parent.RemoveChild(m.Comment)
			changed = true
		}
		if removeEndComment(root, m.EmbedID) {
			changed = true
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

// removeEndComment detaches the EMBED END comment of the given embed.
func removeEndComment(root *html.Node, embedID string) bool {
	var target *html.Node
	walk(root, func(n *html.Node) {
		if target != nil || n.Type != html.CommentNode {
			return
		}
		if m := embedEndRe.FindStringSubmatch(n.Data); m != nil && "editor_"+m[2] == embedID {
			target = n
		}
	})
	if target == nil || target.Parent == nil {
		return false
	}
	target.Parent.RemoveChild(target)
	return true
}

// blockedMediaChild returns the first direct child of the anchor that is a
// media element not allowed by the tag set.
func blockedMediaChild(anchor *html.Node, allowed entitle.TagSet) *html.Node {
	for c := anchor.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if tag, ok := mediaTag(c.Data); ok && !allowed.Allows(tag) {
			return c
		}
	}
	return nil
}

func pruneAssociations(item *models.Item, download entitle.TagSet, opts Options) {
	for key, assoc := range item.Associations {
		if !strings.HasPrefix(key, "editor_") || assoc == nil {
			continue
		}
		if !download.AllowsType(assoc.Type) {
			delete(item.Associations, key)
			continue
		}
		if opts.ApplyProductGate && productGated(assoc.Type) &&
			!entitle.ProductAllowed(assoc.Products, opts.PermittedProducts) {
			delete(item.Associations, key)
		}
	}
}

// productGated reports whether the product gate applies to this
// association type.
func productGated(assocType string) bool {
	switch assocType {
	case models.TypeAudio, models.TypeVideo, models.TypePicture:
		return true
	}
	return false
}

// FeatureMediaPermitted reports whether the item's feature media passes
// the product gate. Items without feature media pass.
func FeatureMediaPermitted(item *models.Item, permitted []string) bool {
	fm := item.FeatureMedia()
	if fm == nil {
		return true
	}
	return entitle.ProductAllowed(fm.Products, permitted)
}
