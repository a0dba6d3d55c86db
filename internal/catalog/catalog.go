// Package catalog holds the static table of ffmpeg/ffprobe archive
// descriptors, one per platform build, and selects the subset relevant
// to the host platform.
package catalog

import (
	"errors"
	"fmt"

	"github.com/keson-app/keson-tools/internal/platform"
)

// ErrUnsupportedPlatform is returned when the host OS has no catalog entries.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Format identifies the archive container of a catalog entry. It is a
// closed set: extraction code switches over it exhaustively instead of
// branching on file extensions.
type Format int

const (
	// FormatZip is a zip archive with a random-access member index.
	FormatZip Format = iota
	// FormatTarXz is an xz-compressed tar stream.
	FormatTarXz
	// FormatSevenZip is a 7z archive with no guaranteed internal layout.
	FormatSevenZip
)

// String returns the human-readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarXz:
		return "tar.xz"
	case FormatSevenZip:
		return "7z"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the filename extension used for the downloaded scratch file.
func (f Format) Ext() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarXz:
		return "tar.xz"
	case FormatSevenZip:
		return "7z"
	default:
		return "bin"
	}
}

// Mapping pairs a binary's name inside the archive with the filename it
// is installed under. Targets carry the Rust target triple the desktop
// bundler expects for sidecar binaries.
type Mapping struct {
	Source string
	Target string
}

// Locator describes how to find the payload binaries inside an archive.
// It is independent of the compression format: zip and tar.xz builds
// publish a known internal layout (PathLocator) while the 7z builds do
// not (SearchLocator).
type Locator interface {
	locator()
}

// PathLocator extracts binaries by exact internal path: Dir joined with
// each Mapping's Source. An empty Dir means the archive root.
type PathLocator struct {
	Dir      string
	Binaries []Mapping
}

func (PathLocator) locator() {}

// SearchLocator finds a single binary by recursive basename search over
// the fully unpacked archive. At most one match is assumed to exist.
type SearchLocator struct {
	Filename string
	Target   string
}

func (SearchLocator) locator() {}

// BinarySpec is one catalog row: where to download an archive from and
// how to locate the payload binaries inside it.
type BinarySpec struct {
	Key     string
	URL     string
	Format  Format
	Locator Locator
}

// ArchiveName returns the deterministic scratch filename for the download.
func (s BinarySpec) ArchiveName() string {
	return s.Key + "." + s.Format.Ext()
}

// Targets returns the destination filenames this spec installs.
func (s BinarySpec) Targets() []string {
	switch loc := s.Locator.(type) {
	case PathLocator:
		targets := make([]string, 0, len(loc.Binaries))
		for _, m := range loc.Binaries {
			targets = append(targets, m.Target)
		}
		return targets
	case SearchLocator:
		return []string{loc.Target}
	default:
		return nil
	}
}

// Entries returns the full static catalog. The URLs and layouts track the
// published BtbN and evermeet.cx ffmpeg builds.
func Entries() []BinarySpec {
	return []BinarySpec{
		{
			Key:    "win64",
			URL:    "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip",
			Format: FormatZip,
			Locator: PathLocator{
				Dir: "ffmpeg-master-latest-win64-gpl/bin",
				Binaries: []Mapping{
					{Source: "ffmpeg.exe", Target: "ffmpeg-x86_64-pc-windows-msvc.exe"},
					{Source: "ffprobe.exe", Target: "ffprobe-x86_64-pc-windows-msvc.exe"},
				},
			},
		},
		{
			Key:    "linux64",
			URL:    "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-linux64-gpl.tar.xz",
			Format: FormatTarXz,
			Locator: PathLocator{
				Dir: "ffmpeg-master-latest-linux64-gpl/bin",
				Binaries: []Mapping{
					{Source: "ffmpeg", Target: "ffmpeg-x86_64-unknown-linux-gnu"},
					{Source: "ffprobe", Target: "ffprobe-x86_64-unknown-linux-gnu"},
				},
			},
		},
		{
			Key:    "macos_intel_ffmpeg",
			URL:    "https://evermeet.cx/ffmpeg/getrelease/zip",
			Format: FormatZip,
			Locator: PathLocator{
				// Single binary at the archive root.
				Binaries: []Mapping{
					{Source: "ffmpeg", Target: "ffmpeg-x86_64-apple-darwin"},
				},
			},
		},
		{
			Key:    "macos_intel_ffprobe",
			URL:    "https://evermeet.cx/ffmpeg/ffprobe-122467-gc3d3377fe1.7z",
			Format: FormatSevenZip,
			Locator: SearchLocator{
				Filename: "ffprobe",
				Target:   "ffprobe-x86_64-apple-darwin",
			},
		},
	}
}

// ForPlatform returns the catalog entries relevant to the host platform.
// macOS gets two entries because ffmpeg and ffprobe ship in separate
// archives there. An unrecognized OS is a fatal ErrUnsupportedPlatform.
func ForPlatform(info *platform.Info) ([]BinarySpec, error) {
	if info == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	var keys []string
	switch {
	case info.IsWindows():
		keys = []string{"win64"}
	case info.IsLinux():
		keys = []string{"linux64"}
	case info.IsMacOS():
		keys = []string{"macos_intel_ffmpeg", "macos_intel_ffprobe"}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, info.OS)
	}

	byKey := make(map[string]BinarySpec)
	for _, spec := range Entries() {
		byKey[spec.Key] = spec
	}

	specs := make([]BinarySpec, 0, len(keys))
	for _, key := range keys {
		spec, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("catalog entry missing for key %q", key)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}
