package extract

import (
	"archive/zip"
	"errors"
	"fmt"

	"github.com/keson-app/keson-tools/internal/catalog"
)

// zipStrategy looks payloads up by exact internal path in the zip member
// index.
type zipStrategy struct {
	loc catalog.PathLocator
}

func (s *zipStrategy) Extract(archivePath string, sink Sink) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	index := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		index[f.Name] = f
	}

	var errs []error
	for _, m := range s.loc.Binaries {
		name := memberPath(s.loc.Dir, m.Source)
		f, ok := index[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrPayloadNotFound, name))
			continue
		}

		if err := s.deliver(f, m.Target, sink); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *zipStrategy) deliver(f *zip.File, target string, sink Sink) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer rc.Close()

	if err := sink(target, rc); err != nil {
		return fmt.Errorf("deliver %s: %w", target, err)
	}
	return nil
}
