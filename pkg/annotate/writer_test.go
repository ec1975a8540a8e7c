package annotate

import (
	"bytes"
	"testing"

	"github.com/rekindle-dev/rekindle/pkg/marker"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

func TestWriteOpenTagDeterministicOrder(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	props := vdom.Props{"id": "a", "data-x": "1", "title": "t"}
	if err := mw.writeOpenTag("div", props, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div data-x="1" id="a" title="t">`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteOpenTagBooleanAttrs(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	props := vdom.Props{"disabled": true, "checked": false}
	if err := mw.writeOpenTag("input", props, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<input disabled>`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteOpenTagClassNameAlias(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	if err := mw.writeOpenTag("label", vdom.Props{"className": "x", "htmlFor": "f"}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<label for="f" class="x">`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteOpenTagHydratedWithoutAuthorClass(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	if err := mw.writeOpenTag("cmp-x", nil, true, bookAttr{marker.AttrHostID, "0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<cmp-x class="hydrated" s-id="0">`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCommentGuardsDoubleDash(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	if err := mw.writeComment("a--b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<!--a- -b-->`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCloseTagVoid(t *testing.T) {
	var buf bytes.Buffer
	mw := &markupWriter{w: &buf}

	if err := mw.writeCloseTag("br"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("void elements have no closing tag, got %q", buf.String())
	}
}
