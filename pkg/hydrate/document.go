package hydrate

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document wraps a parsed DOM tree together with the shadow roots
// attached during reconciliation. x/net/html has no shadow DOM, so
// shadow content lives in detached fragments keyed by host element.
type Document struct {
	Root *html.Node

	shadows map[*html.Node]*html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Root:    root,
		shadows: make(map[*html.Node]*html.Node),
	}, nil
}

// ParseFragment reads a markup fragment the way a browser parses body
// content. The fragment's top-level nodes become children of a
// synthetic document root.
func ParseFragment(markup string) (*Document, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{
		Root:    root,
		shadows: make(map[*html.Node]*html.Node),
	}, nil
}

// ShadowRoot returns the shadow root attached to a host element, or
// nil if none was attached.
func (d *Document) ShadowRoot(host *html.Node) *html.Node {
	return d.shadows[host]
}

// attachShadow creates (or returns) the shadow root of a host element.
func (d *Document) attachShadow(host *html.Node) *html.Node {
	if root, ok := d.shadows[host]; ok {
		return root
	}
	root := &html.Node{Type: html.DocumentNode}
	d.shadows[host] = root
	return root
}

// Render serializes the light DOM back to markup. Shadow content is
// not included, matching what innerHTML would show.
func (d *Document) Render(w io.Writer) error {
	for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// HTML is Render into a string, for tests and tooling.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode serializes one subtree, shadow fragments included, to a
// string.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// getAttr returns an attribute value from an element.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// detach removes a node from its parent, tolerating already-detached
// nodes.
func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
