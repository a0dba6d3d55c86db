package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/keson-app/keson-tools/internal/catalog"
)

// sevenZipStrategy handles archives whose internal layout is not
// guaranteed: it unpacks everything into a fresh subdirectory of the
// run's scratch directory, then searches it recursively for the payload
// filename. Each entry gets its own subdirectory so successive 7z entries
// in one run cannot contaminate each other.
type sevenZipStrategy struct {
	loc        catalog.SearchLocator
	scratchDir string
	key        string

	// unpack is swappable so tests can lay out directory trees without
	// building real 7z fixtures.
	unpack func(archivePath, destDir string) error
}

func (s *sevenZipStrategy) Extract(archivePath string, sink Sink) error {
	destDir, err := os.MkdirTemp(s.scratchDir, s.key+"-")
	if err != nil {
		return fmt.Errorf("create extraction dir: %w", err)
	}

	if err := s.unpack(archivePath, destDir); err != nil {
		return fmt.Errorf("unpack 7z: %w", err)
	}

	found, err := findFile(destDir, s.loc.Filename)
	if err != nil {
		return err
	}

	f, err := os.Open(found)
	if err != nil {
		return fmt.Errorf("open extracted file: %w", err)
	}
	defer f.Close()

	if err := sink(s.loc.Target, f); err != nil {
		return fmt.Errorf("deliver %s: %w", s.loc.Target, err)
	}
	return nil
}

// sevenZipUnpack extracts every regular file of a 7z archive into destDir,
// preserving the internal directory structure.
func sevenZipUnpack(archivePath, destDir string) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(f.Name))

		// Security check: prevent path traversal
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}

		if err := writeMember(f, target); err != nil {
			return err
		}
	}

	return nil
}

func writeMember(f *sevenzip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	return out.Close()
}
