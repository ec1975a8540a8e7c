package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rekindle-dev/rekindle/internal/config"
	"github.com/rekindle-dev/rekindle/internal/dev"
	"github.com/rekindle-dev/rekindle/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a prerendered site",
		Long: `Serve the prerendered output directory over HTTP.

When dev.liveReload is enabled in rekindle.json the server mounts the
reload websocket; connected browsers refresh whenever a page under the
output directory changes.

Examples:
  rekindle serve
  rekindle serve --port=8080 --dir=dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, dir)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (default from rekindle.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from rekindle.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to serve (default: prerender output)")

	return cmd
}

func runServe(port int, host, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if dir == "" {
		dir = cfg.Prerender.Output
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry())
	if cfg.Server.Metrics {
		r.Use(middleware.Prometheus())
		r.Handle("/metrics", promhttp.Handler())
	}

	var reload *dev.ReloadServer
	if cfg.Dev.LiveReload {
		reload = dev.NewReloadServer()
		defer reload.Close()
		r.Get(dev.ReloadPath, reload.HandleWebSocket)
		go watchOutput(dir, reload, logger)
	}

	r.Handle("/*", http.FileServer(http.Dir(dir)))

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	success("serving %s on http://%s", dir, cfg.Address())
	if cfg.Server.Metrics {
		info("metrics at http://%s/metrics", cfg.Address())
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// watchOutput polls the output directory and broadcasts a reload when
// any file's modification time moves forward.
func watchOutput(dir string, reload *dev.ReloadServer, logger *slog.Logger) {
	last := latestModTime(dir)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		now := latestModTime(dir)
		if now.After(last) {
			last = now
			logger.Debug("output changed, reloading clients", "clients", reload.ClientCount())
			reload.NotifyReload()
		}
	}
}

func latestModTime(dir string) time.Time {
	var latest time.Time
	entries, err := os.ReadDir(dir)
	if err != nil {
		return latest
	}
	for _, e := range entries {
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if fi.ModTime().After(latest) {
			latest = fi.ModTime()
		}
		if e.IsDir() {
			if sub := latestModTime(dir + "/" + e.Name()); sub.After(latest) {
				latest = sub
			}
		}
	}
	return latest
}

func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}
