package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Mode is a whatsmybitrate operation mode.
type Mode string

const (
	// ModeProbe estimates the bitrate only.
	ModeProbe Mode = "probe"
	// ModeAnalyze runs the full analysis.
	ModeAnalyze Mode = "analyze"
	// ModeSpectrum runs the full analysis and writes a spectrogram image.
	ModeSpectrum Mode = "spectrum"
)

// Result is the sidecar's JSON output.
type Result map[string]any

// EstimatedBitrate returns the estimated bitrate in kbps from a full
// analysis, rounded to the nearest integer.
func (r Result) EstimatedBitrate() (int, bool) {
	return r.numeric("estimated_bitrate_numeric")
}

// Bitrate returns the bitrate from a probe result.
func (r Result) Bitrate() (int, bool) {
	return r.numeric("bitrate")
}

// IsLossless reports whether the file was identified as lossless.
func (r Result) IsLossless() bool {
	v, _ := r["is_lossless"].(bool)
	return v
}

// Err returns the analysis error message, if any.
func (r Result) Err() string {
	v, _ := r["error"].(string)
	return v
}

func (r Result) numeric(key string) (int, bool) {
	v, ok := r[key].(float64)
	if !ok {
		return 0, false
	}
	return int(math.Round(v)), true
}

// Options configures an Analyzer.
type Options struct {
	// FFprobePath is exported to the sidecar as FFPROBE_PATH so it uses
	// the bundled ffprobe instead of whatever is on PATH. Optional.
	FFprobePath string
	// WindowSeconds is the analysis window passed to analyze and
	// spectrum runs. Zero means the sidecar's default.
	WindowSeconds int
}

// Analyzer invokes the whatsmybitrate sidecar.
type Analyzer struct {
	bin         string
	ffprobePath string
	window      int
}

// NewAnalyzer creates an analyzer around the sidecar executable at bin.
func NewAnalyzer(bin string, opts Options) *Analyzer {
	return &Analyzer{
		bin:         bin,
		ffprobePath: opts.FFprobePath,
		window:      opts.WindowSeconds,
	}
}

// Probe estimates the bitrate of an audio file.
func (a *Analyzer) Probe(ctx context.Context, file string) (Result, error) {
	return a.run(ctx, ModeProbe, file, "")
}

// Analyze runs the full analysis of an audio file.
func (a *Analyzer) Analyze(ctx context.Context, file string) (Result, error) {
	return a.run(ctx, ModeAnalyze, file, "")
}

// Spectrum runs the full analysis and writes a spectrogram image to
// output.
func (a *Analyzer) Spectrum(ctx context.Context, file, output string) (Result, error) {
	if output == "" {
		return nil, fmt.Errorf("spectrum mode requires an output path")
	}
	return a.run(ctx, ModeSpectrum, file, output)
}

func (a *Analyzer) run(ctx context.Context, mode Mode, file, output string) (Result, error) {
	args := []string{string(mode), file}
	if a.window > 0 && mode != ModeProbe {
		args = append(args, "--window", strconv.Itoa(a.window))
	}
	if output != "" {
		args = append(args, "--output", output)
	}

	cmd := exec.CommandContext(ctx, a.bin, args...)
	if a.ffprobePath != "" {
		cmd.Env = append(os.Environ(), "FFPROBE_PATH="+a.ffprobePath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// The sidecar reports analysis failures as a JSON error object on
	// stdout with a nonzero exit status, so try parsing before giving up.
	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("run %s: %w: %s", a.bin, runErr, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("parse analyzer output: %w", err)
	}

	return result, nil
}
