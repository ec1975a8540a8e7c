package vdom

import "sync"

// HostIDAllocator assigns host ids in document order during a single
// annotation or reconciliation run. It is explicit state threaded
// through the walk rather than an ambient global, so independent
// document passes can run concurrently without coordination.
type HostIDAllocator struct {
	mu   sync.Mutex
	next int
}

// NewHostIDAllocator creates an allocator starting at id 0.
func NewHostIDAllocator() *HostIDAllocator {
	return &HostIDAllocator{}
}

// Next returns the next host id.
func (a *HostIDAllocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// Reset restarts the allocator at 0, for reuse across runs.
func (a *HostIDAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = 0
}

// Count returns how many ids have been handed out.
func (a *HostIDAllocator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// ContentID returns the content id for a rendered node. Content ids are
// derived, never independently allocated: the id is exactly the node's
// path string.
func ContentID(p Path) string {
	return p.String()
}
