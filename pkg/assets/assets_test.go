package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	content := `{"rekindle.js": "rekindle.a1b2c3d4.min.js"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 1 || !m.Has("rekindle.js") {
		t.Fatalf("manifest did not load: %+v", m)
	}

	r := NewResolver(m, "/assets/")
	if got := r.Asset("rekindle.js"); got != "/assets/rekindle.a1b2c3d4.min.js" {
		t.Errorf("got %q", got)
	}
	if got := r.Asset("unknown.css"); got != "/assets/unknown.css" {
		t.Errorf("unmapped assets pass through with prefix, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestPassthroughResolver(t *testing.T) {
	r := NewPassthroughResolver("/assets/")
	if got := r.Asset("rekindle.js"); got != "/assets/rekindle.js" {
		t.Errorf("got %q", got)
	}
}

func TestManifestSet(t *testing.T) {
	m := NewManifest()
	m.Set("a.js", "a.123.js")
	if m.Resolve("a.js") != "a.123.js" {
		t.Error("set entry should resolve")
	}
}
