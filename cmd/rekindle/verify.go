package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Reconcile prerendered pages and report mismatches",
		Long: `Reconcile every given markup file (or every .html file under the
prerender output directory) against the component definitions in
rekindle.json. Any mismatch fails the command, so it can gate a
deployment on clean hydration.

Examples:
  rekindle verify
  rekindle verify dist/index.html dist/about/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), args, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to scan (default: prerender output)")

	return cmd
}

func runVerify(ctx context.Context, files []string, dir string) error {
	if len(files) == 0 {
		if dir == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = filepath.Join(cfg.Dir(), cfg.Prerender.Output)
		}
		var err error
		files, err = htmlFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no .html files under %s", dir)
		}
	}

	failed := 0
	for _, path := range files {
		res, err := reconcileFile(ctx, path)
		if err != nil {
			errorMsg("%s: %v", path, err)
			failed++
			continue
		}
		if res.Diagnostics.Clean() {
			success("%s: %d hosts, %d nodes reused", path, res.Diagnostics.HostsSeen, res.Diagnostics.NodesReused)
			continue
		}
		failed++
		errorMsg("%s: %d mismatches", path, len(res.Diagnostics.Mismatches))
		for _, m := range res.Diagnostics.Mismatches {
			info("[%s] %s at %q: %s", m.Kind.Code(), m.Kind, m.Path, m.Detail)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed verification", failed, len(files))
	}
	return nil
}

func htmlFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			files = append(files, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("output directory %s does not exist, run your prerender first", dir)
	}
	return files, err
}
