package extract

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// findFile walks the whole tree under root looking for a regular file
// whose base name equals name, at any depth. The first match in lexical
// walk order wins; the catalog assumes at most one match exists.
func findFile(root, name string) (string, error) {
	var match string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			match = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}

	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrPayloadNotFound, name)
	}
	return match, nil
}
