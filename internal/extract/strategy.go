package extract

import (
	"errors"
	"fmt"
	"io"

	"github.com/keson-app/keson-tools/internal/catalog"
)

// ErrPayloadNotFound is returned when an expected binary is missing from
// an archive. It is recoverable and scoped to the affected binary.
var ErrPayloadNotFound = errors.New("payload not found in archive")

// Sink receives one located payload. target is the destination filename
// from the catalog mapping; r is only valid for the duration of the call.
type Sink func(target string, r io.Reader) error

// Strategy extracts the payload binaries of one catalog entry.
type Strategy interface {
	// Extract opens the archive at archivePath and delivers each payload
	// to sink. Per-binary failures (missing member, sink error) are
	// collected and returned after all other payloads have been delivered.
	Extract(archivePath string, sink Sink) error
}

// ForSpec selects the extraction strategy for a catalog entry. scratchDir
// is the run's shared scratch directory; the 7z strategy unpacks into a
// fresh subdirectory of it.
func ForSpec(spec catalog.BinarySpec, scratchDir string) (Strategy, error) {
	switch spec.Format {
	case catalog.FormatZip:
		loc, ok := spec.Locator.(catalog.PathLocator)
		if !ok {
			return nil, fmt.Errorf("spec %s: zip requires a path locator", spec.Key)
		}
		return &zipStrategy{loc: loc}, nil

	case catalog.FormatTarXz:
		loc, ok := spec.Locator.(catalog.PathLocator)
		if !ok {
			return nil, fmt.Errorf("spec %s: tar.xz requires a path locator", spec.Key)
		}
		return &tarXzStrategy{loc: loc}, nil

	case catalog.FormatSevenZip:
		loc, ok := spec.Locator.(catalog.SearchLocator)
		if !ok {
			return nil, fmt.Errorf("spec %s: 7z requires a search locator", spec.Key)
		}
		return &sevenZipStrategy{
			loc:        loc,
			scratchDir: scratchDir,
			key:        spec.Key,
			unpack:     sevenZipUnpack,
		}, nil

	default:
		return nil, fmt.Errorf("spec %s: unhandled archive format %s", spec.Key, spec.Format)
	}
}

// memberPath joins the locator's internal directory with a binary name
// using the forward slashes archives use. An empty dir means the root.
func memberPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
