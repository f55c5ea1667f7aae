// Command assetctl collects static assets into a versioned store.
//
// The collect command walks one or more source directories, submits every
// file as a single batch, and writes hashed blobs plus the manifest to the
// destination store. The resolve command prints the hashed name and public
// URL recorded for a logical name.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "assetctl",
	Short:         "Content-addressable static asset versioning",
	Long:          "assetctl hashes static assets, rewrites cross-asset references, and maintains the logical-name to hashed-name manifest.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "assets.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(resolveCmd)
}

// logger builds the CLI logger: text to stderr, debug level with --verbose.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
