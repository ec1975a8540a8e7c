// Package hydrate implements the client-side reconciler: a single
// synchronous depth-first walk over a parsed DOM that consumes the
// annotation markers in document order, rebuilds the (hostId, path) →
// node registry a fresh client render would have produced, restores
// shadow roots and slots, and removes the helper markers.
//
// The DOM is the golang.org/x/net/html node tree, produced by a
// standards-compliant parse the reconciler does not control, wrapped in
// a Document that adds the shadow-root sidecar the html package has no
// native notion of.
//
// Hydration mismatches are never fatal: the affected host subtree
// falls back to a fresh client render (its registry entries are
// dropped, its DOM is left as parsed) and the failure is counted in
// the run's Diagnostics.
package hydrate
