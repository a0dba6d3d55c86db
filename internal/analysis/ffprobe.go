package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata holds the subset of ffprobe format tags the app cares about.
type Metadata struct {
	Artist   string
	Title    string
	Album    string
	ISRC     string
	Duration float64
}

type ffprobeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
}

// ExtractMetadata runs ffprobe against the file and returns its format
// tags. Tag keys vary by container, so common spellings are tried in
// order, case-insensitively.
func ExtractMetadata(ctx context.Context, ffprobePath, file string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		file,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running ffprobe on %s: %w", file, err)
	}
	return parseMetadata(out)
}

func parseMetadata(raw []byte) (*Metadata, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	meta := &Metadata{
		Artist: lookupTag(probe.Format.Tags, "artist", "albumartist", "album_artist"),
		Title:  lookupTag(probe.Format.Tags, "title"),
		Album:  lookupTag(probe.Format.Tags, "album"),
		ISRC:   lookupTag(probe.Format.Tags, "isrc", "tsrc"),
	}
	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			meta.Duration = d
		}
	}
	return meta, nil
}

// lookupTag returns the first matching tag value, comparing keys
// case-insensitively.
func lookupTag(tags map[string]string, names ...string) string {
	for _, name := range names {
		for key, value := range tags {
			if strings.EqualFold(key, name) {
				return value
			}
		}
	}
	return ""
}

// ProbeDuration returns the duration of a media file in seconds.
func ProbeDuration(ctx context.Context, ffprobePath, file string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("probing duration of %s: %w", file, err)
	}
	text := strings.TrimSpace(string(out))
	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", text, err)
	}
	return d, nil
}
