package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rekindle-dev/rekindle/internal/dev"
	"github.com/rekindle-dev/rekindle/internal/errors"
	"github.com/rekindle-dev/rekindle/pkg/annotate"
	"github.com/rekindle-dev/rekindle/pkg/assets"
	"github.com/rekindle-dev/rekindle/pkg/middleware"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

// RenderFunc produces the page's node tree for one request.
type RenderFunc func(ctx context.Context, r *http.Request) (*vdom.VNode, error)

// Page is one servable page.
type Page struct {
	// Title is the shell's <title>.
	Title string

	// Render builds the page tree. Called once per request.
	Render RenderFunc

	// Styles are stylesheet asset names resolved through the server's
	// resolver and referenced from the shell.
	Styles []string
}

// Config configures a page server.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string

	// Assets resolves script and stylesheet names for shells.
	// Defaults to a passthrough resolver with prefix "/assets/".
	Assets assets.Resolver

	// StaticDir, when set, is served under /assets/.
	StaticDir string

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool

	// Pretty serves indented markup, the serializer.pretty setting in
	// rekindle.json. Intended for development.
	Pretty bool

	// Indent is the serializer's indentation unit when Pretty is set.
	Indent string

	// LiveReload, when set, mounts the reload websocket and injects
	// the client snippet into every shell.
	LiveReload *dev.ReloadServer

	// Middlewares run in front of every page handler.
	Middlewares []func(http.Handler) http.Handler

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server renders and serves annotated pages.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	annotator *annotate.Annotator
	router    chi.Router
	http      *http.Server
}

// New creates a page server. Register pages with Page before serving.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Assets == nil {
		cfg.Assets = assets.NewPassthroughResolver("/assets/")
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		annotator: annotate.New(annotate.Options{
			Logger: cfg.Logger,
			Pretty: cfg.Pretty,
			Indent: cfg.Indent,
		}),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry())
	for _, mw := range cfg.Middlewares {
		r.Use(mw)
	}

	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.StaticDir != "" {
		fs := http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.Handle("/assets/*", fs)
	}
	if cfg.LiveReload != nil {
		r.Get(dev.ReloadPath, cfg.LiveReload.HandleWebSocket)
	}

	s.router = r
	return s
}

// Page registers a page at the given chi pattern.
func (s *Server) Page(pattern string, page Page) {
	s.router.Get(pattern, s.pageHandler(page))
}

// Handler returns the server's router for mounting into a larger
// application.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) pageHandler(page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		tree, err := page.Render(r.Context(), r)
		if err != nil {
			rerr := errors.FromError(err, "E401")
			s.logger.Error("page render failed",
				"path", r.URL.Path,
				"error", rerr)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		markup, err := s.annotator.AnnotateToString(r.Context(), tree)
		if err != nil {
			s.logger.Error("annotation failed",
				"path", r.URL.Path,
				"error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.writeShell(w, page, markup); err != nil {
			s.logger.Error("shell write failed",
				"path", r.URL.Path,
				"error", err)
			return
		}

		s.logger.Debug("served page",
			"path", r.URL.Path,
			"bytes", len(markup),
			"elapsed", time.Since(start))
	}
}

// ListenAndServe serves until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("page server listening", "addr", s.cfg.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
