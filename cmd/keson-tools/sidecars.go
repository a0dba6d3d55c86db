package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/keson-app/keson-tools/internal/analysis"
	"github.com/keson-app/keson-tools/internal/settings"
)

// analyzerName is the bundled bitrate analyzer sidecar.
const analyzerName = "whatsmybitrate"

func loadSettings(logger *log.Logger) settings.Settings {
	path, err := settings.Path()
	if err != nil {
		logger.Warn("using default settings", "err", err)
		return settings.Default()
	}
	return settings.Load(path)
}

func sidecarDirs(cfg settings.Settings) []string {
	if cfg.BinariesDir != "" {
		return []string{cfg.BinariesDir}
	}
	return nil
}

// newAnalyzer resolves the analyzer sidecar and, if present, the bundled
// ffprobe it should use instead of a system one.
func newAnalyzer(cfg settings.Settings) (*analysis.Analyzer, error) {
	bin, err := analysis.ResolveSidecar(analyzerName, sidecarDirs(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("resolving analyzer: %w (run 'keson-tools fetch-binaries' first)", err)
	}

	opts := analysis.Options{WindowSeconds: cfg.AnalysisWindowSeconds}
	if ffprobe, err := resolveFFprobe(cfg); err == nil {
		opts.FFprobePath = ffprobe
	}

	return analysis.NewAnalyzer(bin, opts), nil
}

func resolveFFprobe(cfg settings.Settings) (string, error) {
	return analysis.ResolveSidecar("ffprobe", sidecarDirs(cfg)...)
}
