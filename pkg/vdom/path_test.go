package vdom

import "testing"

func TestPathString(t *testing.T) {
	p := RootPath(3)
	if p.String() != "3" {
		t.Errorf("got %q, want %q", p.String(), "3")
	}

	child := p.Child(0).Child(2)
	if child.String() != "3.0.2" {
		t.Errorf("got %q, want %q", child.String(), "3.0.2")
	}
}

func TestPathStringIdempotent(t *testing.T) {
	p := RootPath(1).Child(4).Child(0)
	first := p.String()
	second := p.String()
	if first != second {
		t.Errorf("addressing not idempotent: %q vs %q", first, second)
	}
}

func TestPathChildDoesNotAliasParent(t *testing.T) {
	p := RootPath(0).Child(1)
	a := p.Child(0)
	b := p.Child(1)
	if a.String() != "0.1.0" {
		t.Errorf("got %q, want %q", a.String(), "0.1.0")
	}
	if b.String() != "0.1.1" {
		t.Errorf("got %q, want %q", b.String(), "0.1.1")
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("3.0.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HostID != 3 || len(p.Segs) != 2 || p.Segs[0] != 0 || p.Segs[1] != 2 {
		t.Errorf("unexpected path: %+v", p)
	}

	root, err := ParsePath("7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !root.IsRoot() || root.HostID != 7 {
		t.Errorf("unexpected root path: %+v", root)
	}
}

func TestParsePathInvalid(t *testing.T) {
	for _, s := range []string{"", "a", "1.x", "-1", "1.-2", "1..2"} {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q) should fail", s)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	p := RootPath(12).Child(3).Child(0).Child(9)
	parsed, err := ParsePath(p.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(p) {
		t.Errorf("round trip mismatch: %v vs %v", parsed, p)
	}
}

func TestPathParent(t *testing.T) {
	p := RootPath(2).Child(1).Child(0)
	if p.Parent().String() != "2.1" {
		t.Errorf("got %q, want %q", p.Parent().String(), "2.1")
	}
	root := RootPath(2)
	if root.Parent().String() != "2" {
		t.Errorf("parent of root should be root, got %q", root.Parent().String())
	}
}

func TestHostIDAllocator(t *testing.T) {
	alloc := NewHostIDAllocator()
	if got := alloc.Next(); got != 0 {
		t.Errorf("first id should be 0, got %d", got)
	}
	if got := alloc.Next(); got != 1 {
		t.Errorf("second id should be 1, got %d", got)
	}
	if alloc.Count() != 2 {
		t.Errorf("count should be 2, got %d", alloc.Count())
	}
	alloc.Reset()
	if got := alloc.Next(); got != 0 {
		t.Errorf("id after reset should be 0, got %d", got)
	}
}

func TestContentIDIsPathString(t *testing.T) {
	p := RootPath(0).Child(1).Child(2)
	if ContentID(p) != "0.1.2" {
		t.Errorf("got %q, want %q", ContentID(p), "0.1.2")
	}
}
