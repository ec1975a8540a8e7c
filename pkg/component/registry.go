// Package component holds the definition set the client reconciler
// needs to reactivate server-rendered hosts: which tag names are
// components, and which of those get a real shadow root.
package component

import (
	"sort"
	"sync"

	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// Definition describes one component type.
type Definition struct {
	// Tag is the host element's tag name, e.g. "cmp-card".
	Tag string

	// Encapsulation is the host's content encapsulation mode.
	Encapsulation vdom.Encapsulation
}

// Registry is the tag-indexed definition set. It is safe for
// concurrent use; reconciliation runs of independent documents share
// one registry as immutable configuration.
type Registry struct {
	mu    sync.RWMutex
	byTag map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTag: make(map[string]Definition),
	}
}

// Add registers definitions. A later definition for the same tag
// replaces the earlier one.
func (r *Registry) Add(defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		if def.Tag == "" {
			continue
		}
		r.byTag[def.Tag] = def
	}
}

// Lookup returns the definition for a tag name.
func (r *Registry) Lookup(tag string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byTag[tag]
	return def, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTag)
}

// Tags returns all registered tag names in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
