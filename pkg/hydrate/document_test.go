package hydrate

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestParseFragmentRoundTrip(t *testing.T) {
	const markup = `<div class="a"><!--note--><span>hi</span>tail</div>`
	doc := mustParse(t, markup)
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != markup {
		t.Errorf("got %q, want %q", out, markup)
	}
}

func TestParseFragmentCustomElements(t *testing.T) {
	doc := mustParse(t, `<cmp-a s-id="0"><cmp-b>x</cmp-b></cmp-a>`)
	if findElement(doc.Root, "cmp-b") == nil {
		t.Error("nested custom elements should parse as ordinary elements")
	}
}

func TestParseFullDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<!DOCTYPE html><html><body><div id="app"></div></body></html>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findElement(doc.Root, "div") == nil {
		t.Error("body content should be reachable from the root")
	}
}

func TestShadowRootSidecar(t *testing.T) {
	doc := mustParse(t, `<cmp-a></cmp-a>`)
	host := findElement(doc.Root, "cmp-a")

	if doc.ShadowRoot(host) != nil {
		t.Error("no shadow root before attach")
	}
	root := doc.attachShadow(host)
	if root == nil || doc.ShadowRoot(host) != root {
		t.Error("attachShadow should register the sidecar root")
	}
	if again := doc.attachShadow(host); again != root {
		t.Error("attachShadow must be idempotent")
	}

	// Shadow content never serializes into the light DOM.
	root.AppendChild(&html.Node{Type: html.TextNode, Data: "hidden"})
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("shadow content leaked into light markup: %q", out)
	}
}

func TestRenderNode(t *testing.T) {
	doc := mustParse(t, `<p>one</p><p>two</p>`)
	out, err := RenderNode(doc.Root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `<p>one</p><p>two</p>` {
		t.Errorf("got %q", out)
	}
}
