package embeds

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseBody parses an HTML fragment and hangs it off a synthetic body node
// so callers can walk and rewrite it as one tree.
func parseBody(fragment string) (*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse body html: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// renderBody serialises the children of the synthetic body node back to
// markup.
func renderBody(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render body html: %w", err)
		}
	}
	return buf.String(), nil
}

// walk visits every node of the tree in document order. The visitor must
// not detach the visited node; deferred removal keeps iteration stable.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(getAttr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) bool {
	if hasClass(n, class) {
		return false
	}
	existing := getAttr(n, "class")
	if existing == "" {
		setAttr(n, "class", class)
	} else {
		setAttr(n, "class", existing+" "+class)
	}
	return true
}

// firstDescendant returns the first descendant element with the given tag
// name, depth first.
func firstDescendant(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := firstDescendant(c, tag); found != nil {
			return found
		}
	}
	return nil
}
