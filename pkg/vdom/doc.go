// Package vdom defines the rendered-tree model consumed by the server
// annotator and referenced by the client reconciler.
//
// A VNode tree is the output of a render pass: plain elements, text and
// comment nodes, transparent fragments, and component hosts. A host
// carries two child lists: Children is the light DOM supplied by the
// host's caller, Rendered is the host's own template output. Slot
// distribution between the two is resolved by the annotator, not here.
//
// The package also provides Path, the hierarchical render-order address
// of a node relative to its owning host, and the explicit host id
// allocator threaded through annotation and reconciliation runs.
package vdom
