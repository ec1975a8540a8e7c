package integration_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekindle-dev/rekindle/internal/config"
	"github.com/rekindle-dev/rekindle/pkg/annotate"
	"github.com/rekindle-dev/rekindle/pkg/hydrate"
	"github.com/rekindle-dev/rekindle/pkg/middleware"
	"github.com/rekindle-dev/rekindle/pkg/prerender"
	"github.com/rekindle-dev/rekindle/pkg/server"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

const configJSON = `{
	"name": "integration",
	"components": [
		{"tag": "cmp-app", "encapsulation": "none"},
		{"tag": "cmp-card", "encapsulation": "shadow"}
	],
	"hydration": {"rootMarkers": "retain-shadow"}
}`

func appTree() *vdom.VNode {
	card := vdom.Host("cmp-card", vdom.EncapsulationShadow,
		vdom.El("span", vdom.Props{"slot": "title"}, "Welcome"),
		vdom.Text("body copy"),
	).Renders(
		vdom.El("h1", vdom.Slot("title")),
		vdom.El("p", vdom.Slot("")),
	)
	return vdom.Host("cmp-app", vdom.EncapsulationNone).Renders(card)
}

// Render on the server, reconcile as the client, and check that every
// annotated node is recoverable by its logical path.
func TestAnnotateThenReconcile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(configJSON), 0644))
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	a := annotate.New(annotate.Options{})
	markup, err := a.AnnotateToString(context.Background(), appTree())
	require.NoError(t, err)

	doc, err := hydrate.ParseFragment(markup)
	require.NoError(t, err)

	policy, ok := hydrate.ParseRootMarkerPolicy(cfg.Hydration.RootMarkers)
	require.True(t, ok)

	res, err := hydrate.Reconcile(context.Background(), doc, cfg.Definitions(), hydrate.Options{RootMarkers: policy})
	require.NoError(t, err)
	require.True(t, res.Diagnostics.Clean(), "mismatches: %+v", res.Diagnostics.Mismatches)

	require.Len(t, res.Hosts, 2)
	assert.Equal(t, "cmp-app", res.Hosts[0].Tag)
	assert.Equal(t, "cmp-card", res.Hosts[1].Tag)

	// The card's rendered children moved into its shadow root. The
	// slots sit nested inside them, so the relocated light content
	// serialized at the slot positions travels along; the relocation
	// records point back at it.
	card := res.Hosts[1]
	require.NotNil(t, card.ShadowRoot)
	shadow, err := hydrate.RenderNode(card.ShadowRoot)
	require.NoError(t, err)
	assert.Contains(t, shadow, "<h1")
	assert.Contains(t, shadow, "<slot>")
	assert.Contains(t, shadow, "Welcome")
	assert.Contains(t, shadow, "body copy")

	// Relocated nodes are addressable at their original paths.
	span, ok := res.Registry.Lookup(vdom.Path{HostID: 0, Segs: []int{0, 0}})
	require.True(t, ok)
	assert.Equal(t, "span", span.Data)
	assert.Len(t, res.Relocations, 2)
}

// Prerender to disk, then reconcile the stored document the way the
// verify command does.
func TestPrerenderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	defs := func() *config.Config {
		c := config.New()
		c.Components = []config.ComponentConfig{
			{Tag: "cmp-app"},
			{Tag: "cmp-card", Encapsulation: "shadow"},
		}
		return c
	}()

	pages := []prerender.Page{{
		Route: "/",
		Title: "Home",
		Render: func(ctx context.Context) (*vdom.VNode, error) {
			return appTree(), nil
		},
	}}
	res, err := prerender.Run(context.Background(), pages, prerender.NewDiskStore(dir), prerender.Options{
		Verify: true,
		Defs:   defs.Definitions(),
	})
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)

	f, err := os.Open(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	defer f.Close()

	doc, err := hydrate.Parse(f)
	require.NoError(t, err)
	out, err := hydrate.Reconcile(context.Background(), doc, defs.Definitions(), hydrate.Options{})
	require.NoError(t, err)
	assert.True(t, out.Diagnostics.Clean())
	assert.Equal(t, 2, out.Diagnostics.HostsSeen)
}

// The page server mounts inside a chi application with the
// Prometheus middleware in front.
func TestServerInChiStack(t *testing.T) {
	srv := server.New(server.Config{})
	srv.Page("/", server.Page{
		Title: "Home",
		Render: func(ctx context.Context, r *http.Request) (*vdom.VNode, error) {
			return appTree(), nil
		},
	})

	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/*", srv.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `s-id="0"`))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

// The serializer section of rekindle.json drives the page server's
// markup formatting.
func TestServerUsesConfigSerializer(t *testing.T) {
	dir := t.TempDir()
	pretty := `{"name": "integration", "serializer": {"pretty": true, "indent": "    "}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(pretty), 0644))
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	srv := server.New(server.Config{
		Pretty: cfg.Serializer.Pretty,
		Indent: cfg.Serializer.Indent,
	})
	srv.Page("/", server.Page{
		Title: "Home",
		Render: func(ctx context.Context, r *http.Request) (*vdom.VNode, error) {
			return appTree(), nil
		},
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<cmp-app class=\"hydrated\" s-id=\"0\">\n    <!--r.0-->")
}
