// Package assets resolves fingerprinted asset paths for page shells.
//
// A build step writes a manifest.json mapping source asset names to
// their fingerprinted versions:
//
//	{
//	  "rekindle.js": "rekindle.a1b2c3d4.min.js",
//	  "styles.css": "styles.e5f6g7h8.css"
//	}
//
// The page server loads the manifest and resolves script and style
// references when it writes the HTML shell around annotated pages:
//
//	manifest, _ := assets.Load("dist/manifest.json")
//	resolver := assets.NewResolver(manifest, "/assets/")
//	resolver.Asset("rekindle.js") // "/assets/rekindle.a1b2c3d4.min.js"
package assets

import (
	"encoding/json"
	"os"
	"sync"
)

// Manifest holds the mapping from source asset paths to fingerprinted
// paths. It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Load reads a manifest.json file. In development, where no build has
// run, callers typically ignore the error and fall back to
// NewPassthroughResolver.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted path for the given source path,
// or the source path unchanged when the manifest has no entry.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest contains the source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
