package hydrate

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

func TestRegistryBindLookup(t *testing.T) {
	r := NewRegistry()
	n := &html.Node{Type: html.TextNode, Data: "x"}
	p := vdom.Path{HostID: 2, Segs: []int{0, 1}}

	r.Bind(p, n)
	got, ok := r.Lookup(p)
	if !ok || got != n {
		t.Fatal("bound node should be retrievable by path")
	}
	if _, ok := r.Lookup(vdom.Path{HostID: 2, Segs: []int{0, 2}}); ok {
		t.Error("lookup of an unbound path should miss")
	}
	if r.Len() != 1 || r.HostLen(2) != 1 {
		t.Errorf("len = %d, host len = %d", r.Len(), r.HostLen(2))
	}
}

func TestRegistryRebindReplaces(t *testing.T) {
	r := NewRegistry()
	p := vdom.RootPath(0)
	first := &html.Node{Type: html.ElementNode, Data: "div"}
	second := &html.Node{Type: html.ElementNode, Data: "span"}

	r.Bind(p, first)
	r.Bind(p, second)
	got, _ := r.Lookup(p)
	if got != second {
		t.Error("later bind should win")
	}
	if r.Len() != 1 {
		t.Errorf("rebind must not grow the registry, len = %d", r.Len())
	}
}

func TestRegistryPurge(t *testing.T) {
	r := NewRegistry()
	r.Bind(vdom.RootPath(0), &html.Node{Type: html.ElementNode, Data: "a"})
	r.Bind(vdom.Path{HostID: 0, Segs: []int{0}}, &html.Node{Type: html.TextNode})
	r.Bind(vdom.RootPath(1), &html.Node{Type: html.ElementNode, Data: "b"})

	if dropped := r.Purge(0); dropped != 2 {
		t.Errorf("purge dropped %d, want 2", dropped)
	}
	if r.HostLen(0) != 0 {
		t.Error("purged host should have no bindings")
	}
	if r.Len() != 1 || r.HostLen(1) != 1 {
		t.Error("other hosts must keep their bindings")
	}
	if dropped := r.Purge(0); dropped != 0 {
		t.Error("purging twice should be a no-op")
	}
}
