package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keson-app/keson-tools/internal/analysis"
)

var probeMetadata bool

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Quickly estimate the bitrate of a single audio file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettings(newLogger())

		analyzer, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		result, err := analyzer.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if probeMetadata {
			ffprobe, err := resolveFFprobe(cfg)
			if err != nil {
				return fmt.Errorf("--metadata: %w", err)
			}
			meta, err := analysis.ExtractMetadata(cmd.Context(), ffprobe, args[0])
			if err != nil {
				return err
			}
			result["artist"] = meta.Artist
			result["title"] = meta.Title
			result["album"] = meta.Album
			result["isrc"] = meta.ISRC
			result["duration"] = meta.Duration
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeMetadata, "metadata", false, "include ffprobe format tags in the output")
	rootCmd.AddCommand(probeCmd)
}
