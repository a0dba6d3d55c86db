package extract

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/keson-app/keson-tools/internal/catalog"
)

// tarXzStrategy streams an xz-compressed tar archive once, delivering the
// members the locator names by exact internal path.
type tarXzStrategy struct {
	loc catalog.PathLocator
}

func (s *tarXzStrategy) Extract(archivePath string, sink Sink) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	xzReader, err := xz.NewReader(bufio.NewReader(archiveFile))
	if err != nil {
		return fmt.Errorf("create xz reader: %w", err)
	}

	// Wanted internal paths mapped to destination filenames.
	wanted := make(map[string]string, len(s.loc.Binaries))
	for _, m := range s.loc.Binaries {
		wanted[memberPath(s.loc.Dir, m.Source)] = m.Target
	}

	var errs []error
	tarReader := tar.NewReader(xzReader)
	for len(wanted) > 0 {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := cleanMemberName(header.Name)
		target, ok := wanted[name]
		if !ok {
			continue
		}
		delete(wanted, name)

		if err := sink(target, tarReader); err != nil {
			errs = append(errs, fmt.Errorf("deliver %s: %w", target, err))
		}
	}

	for name := range wanted {
		errs = append(errs, fmt.Errorf("%w: %s", ErrPayloadNotFound, name))
	}

	return errors.Join(errs...)
}

// cleanMemberName normalizes tar member names, which some builds prefix
// with "./".
func cleanMemberName(name string) string {
	return path.Clean(strings.TrimPrefix(name, "./"))
}
