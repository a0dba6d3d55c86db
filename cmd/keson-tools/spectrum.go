package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var spectrumOutput string

var spectrumCmd = &cobra.Command{
	Use:   "spectrum <file>",
	Short: "Analyze a file and write its spectrogram image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(loadSettings(newLogger()))
		if err != nil {
			return err
		}

		result, err := analyzer.Spectrum(cmd.Context(), args[0], spectrumOutput)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	spectrumCmd.Flags().StringVarP(&spectrumOutput, "output", "o", "", "path for the spectrogram image (required)")
	spectrumCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(spectrumCmd)
}
