package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rekindle-dev/rekindle/internal/errors"
	"github.com/rekindle-dev/rekindle/pkg/component"
	"github.com/rekindle-dev/rekindle/pkg/hydrate"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Reconcile a markup file and dump what the client would see",
		Long: `Parse an annotated markup file, run reconciliation against the
component definitions in rekindle.json, and print the recovered hosts,
slot relocations, and any mismatches.

Examples:
  rekindle inspect dist/index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runInspect(ctx context.Context, path string) error {
	res, err := reconcileFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", path)
	fmt.Printf("  Hosts:         %d\n", res.Diagnostics.HostsSeen)
	fmt.Printf("  Nodes reused:  %d\n", res.Diagnostics.NodesReused)
	fmt.Printf("  Markers read:  %d\n", res.Diagnostics.MarkersRead)
	fmt.Printf("  Relocations:   %d\n", len(res.Relocations))
	fmt.Println()

	for _, h := range res.Hosts {
		state := "ok"
		if h.Fallback {
			state = "FALLBACK"
		}
		fmt.Printf("  host %d <%s> %s %s\n", h.ID, h.Tag, h.Encapsulation, state)
	}
	for _, rel := range res.Relocations {
		fmt.Printf("  relocation %s -> slot %s\n", rel.OriginalPath, rel.SlotPath)
	}

	if res.Diagnostics.Clean() {
		fmt.Println()
		success("no mismatches")
		return nil
	}

	for _, m := range res.Diagnostics.Mismatches {
		rerr := errors.New(m.Kind.Code()).WithDetail(m.Detail)
		if m.Path != "" {
			rerr = rerr.WithPath(m.Path)
		}
		fmt.Println()
		fmt.Print(errors.Format(rerr))
	}
	return fmt.Errorf("%d mismatches in %s", len(res.Diagnostics.Mismatches), path)
}

// reconcileFile parses one markup file and reconciles it with the
// project's definitions and root marker policy.
func reconcileFile(ctx context.Context, path string) (*hydrate.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("E501").WithPath(path).Wrap(err)
	}
	defer f.Close()

	doc, err := hydrate.Parse(f)
	if err != nil {
		return nil, errors.New("E501").WithPath(path).Wrap(err)
	}

	defs := component.NewRegistry()
	policy := hydrate.RootMarkersRetainShadow
	if cfg, cfgErr := loadConfig(); cfgErr == nil {
		defs = cfg.Definitions()
		policy, _ = hydrate.ParseRootMarkerPolicy(cfg.Hydration.RootMarkers)
	}

	return hydrate.Reconcile(ctx, doc, defs, hydrate.Options{RootMarkers: policy})
}
