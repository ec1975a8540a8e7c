package prerender

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rekindle-dev/rekindle/pkg/component"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

func cardPage(route string) Page {
	return Page{
		Route: route,
		Title: "Card",
		Render: func(ctx context.Context) (*vdom.VNode, error) {
			return vdom.Host("cmp-card", vdom.EncapsulationShadow, vdom.Text("light")).
				Renders(vdom.Slot("")), nil
		},
	}
}

func cardDefs() *component.Registry {
	r := component.NewRegistry()
	r.Add(component.Definition{Tag: "cmp-card", Encapsulation: vdom.EncapsulationShadow})
	return r
}

func TestRunWritesPages(t *testing.T) {
	dir := t.TempDir()
	pages := []Page{cardPage("/"), cardPage("/about"), cardPage("/about/team")}

	res, err := Run(context.Background(), pages, NewDiskStore(dir), Options{Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("pages = %d", len(res.Pages))
	}
	// Sorted by route.
	if res.Pages[0].Route != "/" || res.Pages[0].Path != "index.html" {
		t.Errorf("root page = %+v", res.Pages[0])
	}
	if res.Pages[1].Path != "about/index.html" || res.Pages[2].Path != "about/team/index.html" {
		t.Errorf("nested paths wrong: %+v", res.Pages[1:])
	}

	data, err := os.ReadFile(filepath.Join(dir, "about", "index.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := string(data)
	for _, frag := range []string{"<!DOCTYPE html>", `s-id="0"`, "<!--r.0-->", "rekindle.js"} {
		if !strings.Contains(body, frag) {
			t.Errorf("output should contain %q", frag)
		}
	}
}

func TestRunVerifyPasses(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), []Page{cardPage("/")}, NewDiskStore(dir), Options{
		Verify: true,
		Defs:   cardDefs(),
	})
	if err != nil {
		t.Fatalf("clean pages should verify: %v", err)
	}
}

func TestRunVerifyCatchesUnknownHost(t *testing.T) {
	// Verification runs against the definition registry; a host tag
	// missing from it must fail the page.
	dir := t.TempDir()
	_, err := Run(context.Background(), []Page{cardPage("/")}, NewDiskStore(dir), Options{
		Verify: true,
		Defs:   component.NewRegistry(),
	})
	if err == nil {
		t.Fatal("expected verification failure")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "index.html")); statErr == nil {
		t.Error("failed page must not be stored")
	}
}

func TestRunCollectsRenderErrors(t *testing.T) {
	dir := t.TempDir()
	broken := Page{
		Route: "/broken",
		Render: func(ctx context.Context) (*vdom.VNode, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	res, err := Run(context.Background(), []Page{cardPage("/"), broken}, NewDiskStore(dir), Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	// The healthy page still renders.
	if len(res.Pages) != 1 || res.Pages[0].Route != "/" {
		t.Errorf("pages = %+v", res.Pages)
	}
}

func TestRoutePath(t *testing.T) {
	cases := map[string]string{
		"/":       "index.html",
		"":        "index.html",
		"/about":  "about/index.html",
		"/about/": "about/index.html",
		"/a/b":    "a/b/index.html",
	}
	for route, want := range cases {
		if got := routePath(route); got != want {
			t.Errorf("routePath(%q) = %q, want %q", route, got, want)
		}
	}
}

type fakeS3 struct {
	mu   sync.Mutex
	puts map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.puts == nil {
		f.puts = make(map[string][]byte)
	}
	var buf []byte
	if params.Body != nil {
		data, err := io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}
		buf = data
	}
	f.puts[*params.Bucket+"/"+*params.Key] = buf
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3Store(fake, "site", "v2/")

	if err := store.Put(context.Background(), "about/index.html", []byte("<html>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := fake.puts["site/v2/about/index.html"]
	if !ok || string(got) != "<html>" {
		t.Errorf("puts = %v", fake.puts)
	}
}
