package hydrate

import (
	"golang.org/x/net/html"

	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// NodeKey identifies one rendered node: its owning host id and its
// path string within that host.
type NodeKey struct {
	HostID int
	Path   string
}

// Registry is the reconstructed mapping from (hostId, path) to live
// DOM node references, equivalent to the bookkeeping a fresh client
// render would have produced.
type Registry struct {
	nodes  map[NodeKey]*html.Node
	byHost map[int][]NodeKey
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:  make(map[NodeKey]*html.Node),
		byHost: make(map[int][]NodeKey),
	}
}

// Bind records a node at its path.
func (r *Registry) Bind(p vdom.Path, n *html.Node) {
	key := NodeKey{HostID: p.HostID, Path: p.String()}
	if _, exists := r.nodes[key]; !exists {
		r.byHost[p.HostID] = append(r.byHost[p.HostID], key)
	}
	r.nodes[key] = n
}

// Lookup returns the node bound at a path.
func (r *Registry) Lookup(p vdom.Path) (*html.Node, bool) {
	n, ok := r.nodes[NodeKey{HostID: p.HostID, Path: p.String()}]
	return n, ok
}

// Len returns the number of bound nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// HostLen returns the number of nodes bound for one host.
func (r *Registry) HostLen(hostID int) int {
	return len(r.byHost[hostID])
}

// Purge drops every binding owned by a host and returns how many were
// dropped. Used when a host subtree falls back to client rendering.
func (r *Registry) Purge(hostID int) int {
	keys := r.byHost[hostID]
	for _, key := range keys {
		delete(r.nodes, key)
	}
	delete(r.byHost, hostID)
	return len(keys)
}
