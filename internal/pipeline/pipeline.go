// Package pipeline drives the full binary acquisition run: platform
// detection, catalog selection, then fetch, extract, and install per
// entry with per-entry failure isolation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/keson-app/keson-tools/internal/catalog"
	"github.com/keson-app/keson-tools/internal/extract"
	"github.com/keson-app/keson-tools/internal/fetch"
	"github.com/keson-app/keson-tools/internal/install"
	"github.com/keson-app/keson-tools/internal/platform"
)

// Options configures a pipeline run.
type Options struct {
	// DestDir is where the binaries are installed. Required.
	DestDir string
	// Logger receives run diagnostics. Defaults to a silent logger.
	Logger *log.Logger
	// Progress renders download progress bars.
	Progress bool
	// Detector overrides host platform detection. For tests.
	Detector platform.Detector
	// Specs overrides the catalog subset. When nil the pipeline detects
	// the host platform and selects from the production catalog.
	Specs []catalog.BinarySpec
}

// Pipeline downloads and installs the sidecar binaries for one platform.
type Pipeline struct {
	destDir    string
	logger     *log.Logger
	downloader *fetch.Downloader
	detector   platform.Detector
	specs      []catalog.BinarySpec
}

// New creates a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.DestDir == "" {
		return nil, fmt.Errorf("DestDir is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	detector := opts.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}

	return &Pipeline{
		destDir:    opts.DestDir,
		logger:     logger,
		downloader: fetch.NewDownloader(fetch.Options{Progress: opts.Progress}),
		detector:   detector,
		specs:      opts.Specs,
	}, nil
}

// Run executes the pipeline once. It fails only for catastrophic
// conditions: an unsupported host platform, an unusable scratch
// directory, or cancellation. Per-entry failures are logged and the run
// continues with the next entry; the shared scratch directory is removed
// when all entries have been processed, whether they succeeded or not.
func (p *Pipeline) Run(ctx context.Context) error {
	specs := p.specs
	if specs == nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return fmt.Errorf("detect platform: %w", err)
		}

		specs, err = catalog.ForPlatform(info)
		if err != nil {
			return err
		}
		p.logger.Info("detected platform", info.LogValues()...)
	}

	scratchDir, err := os.MkdirTemp("", "keson-binaries-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		// Best-effort cleanup; a leftover scratch dir never fails the run.
		if err := os.RemoveAll(scratchDir); err != nil {
			p.logger.Warn("remove scratch dir", "path", scratchDir, "error", err)
		}
	}()

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.process(ctx, spec, scratchDir); err != nil {
			p.logger.Error("entry failed", "key", spec.Key, "error", err)
		}
	}

	return nil
}

// process handles one catalog entry: fetch, extract, install.
func (p *Pipeline) process(ctx context.Context, spec catalog.BinarySpec, scratchDir string) error {
	p.logger.Info("downloading", "key", spec.Key, "url", spec.URL)

	archivePath, err := p.downloader.FetchArchive(ctx, spec, scratchDir)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	strategy, err := extract.ForSpec(spec, scratchDir)
	if err != nil {
		return err
	}

	sink := func(target string, r io.Reader) error {
		destPath := filepath.Join(p.destDir, target)
		if err := install.Install(r, destPath); err != nil {
			return err
		}
		p.logger.Info("installed", "binary", target)
		return nil
	}

	if err := strategy.Extract(archivePath, sink); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	return nil
}
