package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rekindle",
		Short: "Server-side rendering annotation tools",
		Long: `Rekindle annotates server-rendered markup so a client can
reactivate it without re-rendering.

The server walks the rendered component tree and plants comment
markers and bookkeeping attributes describing each node's logical
position. The client parses the markup once, consumes the markers,
and rebuilds its node registry from what is already in the document.

Commands:
  serve      Serve a prerendered site with live reload
  inspect    Reconcile a markup file and dump what the client would see
  verify     Reconcile prerendered pages and report mismatches
  version    Print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		inspectCmd(),
		verifyCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
