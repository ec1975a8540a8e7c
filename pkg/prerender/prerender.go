// Package prerender renders annotated pages ahead of time and writes
// them to a store, for static hosting or CDN upload.
//
// Pages render concurrently; each render runs the same annotator a
// live server would, so prerendered output hydrates identically. An
// optional verification pass re-parses each page and reconciles it
// against the component definitions, catching annotation bugs before
// anything is published.
package prerender

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	rekerr "github.com/rekindle-dev/rekindle/internal/errors"
	"github.com/rekindle-dev/rekindle/pkg/annotate"
	"github.com/rekindle-dev/rekindle/pkg/assets"
	"github.com/rekindle-dev/rekindle/pkg/component"
	"github.com/rekindle-dev/rekindle/pkg/hydrate"
	"github.com/rekindle-dev/rekindle/pkg/server"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// Page is one route to prerender.
type Page struct {
	// Route is the URL path, e.g. "/" or "/about".
	Route string

	// Title is the shell's <title>.
	Title string

	// Styles are stylesheet asset names referenced from the shell.
	Styles []string

	// Render builds the page tree.
	Render func(ctx context.Context) (*vdom.VNode, error)
}

// Options configures a prerender run.
type Options struct {
	// Workers is the number of concurrent page renders (default: 4).
	Workers int

	// Verify re-parses and reconciles each page before storing it.
	// Pages with mismatches fail the run.
	Verify bool

	// Defs is the component definition registry for verification.
	Defs *component.Registry

	// Assets resolves asset names for shells.
	Assets assets.Resolver

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// PageResult describes one prerendered page.
type PageResult struct {
	Route string
	Path  string
	Bytes int
}

// Result describes a completed prerender run.
type Result struct {
	Pages   []PageResult // sorted by route
	Elapsed time.Duration
}

// Run prerenders all pages into the store. Page failures don't stop
// other pages; all failures come back joined in the returned error.
func Run(ctx context.Context, pages []Page, store Store, opts Options) (*Result, error) {
	if store == nil {
		return nil, rekerr.Newf(rekerr.CategoryConfig, "prerender: nil store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}
	defs := opts.Defs
	if defs == nil {
		defs = component.NewRegistry()
	}

	annotator := annotate.New(annotate.Options{Logger: logger})
	start := time.Now()

	jobs := make(chan Page)
	var (
		mu      sync.Mutex
		results []PageResult
		errs    []error
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				res, err := renderOne(ctx, annotator, defs, store, page, opts)
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					results = append(results, res)
				}
				mu.Unlock()
				if err != nil {
					logger.Error("prerender failed", "route", page.Route, "error", err)
				} else {
					logger.Debug("prerendered page", "route", page.Route, "path", res.Path, "bytes", res.Bytes)
				}
			}
		}()
	}

	for _, page := range pages {
		select {
		case jobs <- page:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Route < results[j].Route })
	if len(errs) > 0 {
		return &Result{Pages: results, Elapsed: time.Since(start)}, errors.Join(errs...)
	}

	logger.Info("prerender complete",
		"pages", len(results),
		"elapsed", time.Since(start))
	return &Result{Pages: results, Elapsed: time.Since(start)}, nil
}

func renderOne(ctx context.Context, annotator *annotate.Annotator, defs *component.Registry, store Store, page Page, opts Options) (PageResult, error) {
	tree, err := page.Render(ctx)
	if err != nil {
		return PageResult{}, rekerr.FromError(err, "E401").WithDetail("route " + page.Route)
	}

	markup, err := annotator.AnnotateToString(ctx, tree)
	if err != nil {
		return PageResult{}, err
	}

	if opts.Verify {
		if err := verify(ctx, markup, defs, opts.Logger); err != nil {
			return PageResult{}, rekerr.FromError(err, "E101").WithDetail("route " + page.Route)
		}
	}

	var buf bytes.Buffer
	err = server.WriteShell(&buf, server.Shell{
		Title:  page.Title,
		Styles: page.Styles,
		Markup: markup,
		Assets: opts.Assets,
	})
	if err != nil {
		return PageResult{}, err
	}

	path := routePath(page.Route)
	if err := store.Put(ctx, path, buf.Bytes()); err != nil {
		return PageResult{}, err
	}
	return PageResult{Route: page.Route, Path: path, Bytes: buf.Len()}, nil
}

// verify reparses the annotated markup and reconciles it, proving the
// page will hydrate cleanly.
func verify(ctx context.Context, markup string, defs *component.Registry, logger *slog.Logger) error {
	doc, err := hydrate.ParseFragment(markup)
	if err != nil {
		return err
	}
	res, err := hydrate.Reconcile(ctx, doc, defs, hydrate.Options{Logger: logger})
	if err != nil {
		return err
	}
	if !res.Diagnostics.Clean() {
		m := res.Diagnostics.Mismatches[0]
		return rekerr.Newf(rekerr.CategoryHydrate,
			"verification found %d mismatches, first: %s at %q: %s",
			len(res.Diagnostics.Mismatches), m.Kind, m.Path, m.Detail)
	}
	return nil
}

// routePath maps a URL route to the object path of its document.
func routePath(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}
