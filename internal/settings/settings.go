// Package settings stores user preferences as a JSON file under the
// platform config directory.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings are the user-tunable knobs. Fields absent from the file keep
// their defaults.
type Settings struct {
	// MinBitrate is the kbps threshold below which a file is flagged.
	MinBitrate int `json:"min_bitrate"`
	// AnalysisWindowSeconds limits how much audio the analyzer decodes.
	AnalysisWindowSeconds int  `json:"analysis_window_seconds"`
	CacheEnabled          bool `json:"cache_enabled"`
	CacheMaxEntries       int  `json:"cache_max_entries"`
	// BinariesDir overrides where bundled ffmpeg/ffprobe are looked up.
	BinariesDir string `json:"binaries_dir,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		MinBitrate:            256,
		AnalysisWindowSeconds: 100,
		CacheEnabled:          true,
		CacheMaxEntries:       10000,
	}
}

// Dir returns the settings directory, honoring the KESON_CONFIG_DIR
// override.
func Dir() (string, error) {
	if dir := os.Getenv("KESON_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, "keson"), nil
}

// Path returns the settings file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Load reads settings from path. A missing or corrupt file returns the
// defaults; a partial file keeps defaults for absent fields.
func Load(path string) Settings {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default()
	}
	return s
}

// Save writes settings atomically to path, creating the parent
// directory if needed.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing settings file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}
