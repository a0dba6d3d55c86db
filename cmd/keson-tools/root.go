package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "keson-tools",
	Short: "Companion tooling for the Keson audio quality checker",
	Long: `keson-tools bundles the maintenance tasks around the Keson desktop
app: fetching the ffmpeg/ffprobe sidecar binaries for the current
platform and running bitrate analysis on audio files or whole
libraries.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetVersionTemplate("keson-tools {{.Version}}\n")
}

// newLogger builds the CLI logger on stderr so command output on stdout
// stays machine-readable.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}
