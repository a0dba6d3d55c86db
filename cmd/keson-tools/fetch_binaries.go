package main

import (
	"github.com/spf13/cobra"

	"github.com/keson-app/keson-tools/internal/pipeline"
)

var fetchDest string

var fetchBinariesCmd = &cobra.Command{
	Use:   "fetch-binaries",
	Short: "Download and install the ffmpeg/ffprobe sidecar binaries",
	Long: `fetch-binaries detects the host platform, downloads the matching
ffmpeg and ffprobe archives, and installs the executables into the
destination directory with platform-suffixed names ready for bundling.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.New(pipeline.Options{
			DestDir:  fetchDest,
			Logger:   newLogger(),
			Progress: true,
		})
		if err != nil {
			return err
		}
		return p.Run(cmd.Context())
	},
}

func init() {
	fetchBinariesCmd.Flags().StringVar(&fetchDest, "dest", "src-tauri/binaries", "directory to install the binaries into")
	rootCmd.AddCommand(fetchBinariesCmd)
}
