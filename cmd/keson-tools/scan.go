package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/keson-app/keson-tools/internal/analysis"
	"github.com/keson-app/keson-tools/internal/cache"
)

// ScanResult is one scanned file, as printed by --json.
type ScanResult struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Bitrate    *int   `json:"bitrate"`
	IsLossless bool   `json:"is_lossless"`
	Note       string `json:"note,omitempty"`
	Status     string `json:"status"`
}

// Scan statuses.
const (
	StatusOK    = "ok"
	StatusBad   = "bad"
	StatusError = "error"
)

var (
	scanJSON       bool
	scanMinBitrate int
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Analyze every audio file under a directory",
	Long: `scan walks a directory, estimates the real bitrate of every audio
file with the whatsmybitrate analyzer, and flags files below the
configured minimum. Results are cached by content hash, so rescans only
analyze new or changed files.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print results as a JSON array")
	scanCmd.Flags().IntVar(&scanMinBitrate, "min-bitrate", 0, "kbps threshold (default from settings)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg := loadSettings(logger)

	minBitrate := cfg.MinBitrate
	if scanMinBitrate > 0 {
		minBitrate = scanMinBitrate
	}

	files, err := collectAudioFiles(args[0])
	if err != nil {
		return fmt.Errorf("collecting audio files: %w", err)
	}
	if len(files) == 0 {
		logger.Info("no audio files found", "path", args[0])
		return nil
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	var store *cache.Cache
	if cfg.CacheEnabled {
		path, err := cache.DefaultPath()
		if err != nil {
			logger.Warn("cache disabled", "err", err)
		} else {
			store = cache.Load(path, cfg.CacheMaxEntries)
		}
	}

	var bar *progressbar.ProgressBar
	if !scanJSON {
		bar = progressbar.Default(int64(len(files)), "scanning")
	}

	results := make([]ScanResult, 0, len(files))
	for _, file := range files {
		results = append(results, scanFile(cmd.Context(), logger, analyzer, store, file, minBitrate))
		if bar != nil {
			bar.Add(1)
		}
	}

	if store != nil {
		if err := store.Save(); err != nil {
			logger.Warn("saving analysis cache", "err", err)
		}
	}

	return printResults(results)
}

func scanFile(ctx context.Context, logger *log.Logger, analyzer *analysis.Analyzer, store *cache.Cache, file string, minBitrate int) ScanResult {
	res := ScanResult{Path: file, Name: filepath.Base(file)}

	// Hash once per file; the same hash keys both the lookup and the store.
	var hash string
	if store != nil {
		h, err := cache.FileHash(file)
		if err != nil {
			logger.Debug("hashing failed, caching disabled for file", "file", file, "err", err)
		} else {
			hash = h
		}
	}

	var entry cache.Entry
	var ok bool
	if hash != "" {
		entry, ok = store.Get(hash)
	}
	if !ok {
		entry = analyzeFile(ctx, logger, analyzer, file)
		if hash != "" {
			store.Put(hash, entry)
		}
	}

	if entry.Bitrate != nil {
		b := *entry.Bitrate
		res.Bitrate = &b
	}
	if entry.IsLossless != nil {
		res.IsLossless = *entry.IsLossless
	}
	if entry.Note != nil {
		res.Note = *entry.Note
	}
	res.Status = classify(entry, minBitrate)
	return res
}

// classify maps an analysis entry to a scan status: lossless files pass,
// files without a usable bitrate are errors, and the rest are judged
// against the minimum.
func classify(entry cache.Entry, minBitrate int) string {
	if entry.IsLossless != nil && *entry.IsLossless {
		return StatusOK
	}
	if entry.Bitrate == nil {
		return StatusError
	}
	if *entry.Bitrate < minBitrate {
		return StatusBad
	}
	return StatusOK
}

func analyzeFile(ctx context.Context, logger *log.Logger, analyzer *analysis.Analyzer, file string) cache.Entry {
	result, err := analyzer.Analyze(ctx, file)
	if err != nil {
		logger.Debug("analysis failed", "file", file, "err", err)
		note := err.Error()
		return cache.Entry{Note: &note}
	}
	if msg := result.Err(); msg != "" {
		return cache.Entry{Note: &msg}
	}

	var entry cache.Entry
	if b, ok := result.EstimatedBitrate(); ok {
		entry.Bitrate = &b
	} else if b, ok := result.Bitrate(); ok {
		entry.Bitrate = &b
	}
	lossless := result.IsLossless()
	entry.IsLossless = &lossless
	return entry
}

func collectAudioFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && analysis.IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func printResults(results []ScanResult) error {
	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	bad := 0
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			if r.IsLossless {
				fmt.Printf("  ok   %s (lossless)\n", r.Path)
			} else {
				fmt.Printf("  ok   %s (%d kbps)\n", r.Path, *r.Bitrate)
			}
		case StatusBad:
			bad++
			fmt.Printf("  BAD  %s (%d kbps)\n", r.Path, *r.Bitrate)
		default:
			fmt.Printf("  err  %s (%s)\n", r.Path, r.Note)
		}
	}
	fmt.Printf("%d files scanned, %d below threshold\n", len(results), bad)
	return nil
}
