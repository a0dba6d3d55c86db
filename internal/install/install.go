// Package install writes located payload binaries into the destination
// directory. It knows nothing about archive formats.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Install copies r to destPath, creating the destination directory if
// needed. The bytes go to a temp file in the same directory and are
// renamed into place, so an interrupted copy never leaves a truncated
// destination. On POSIX targets the installed file gets 0755 permissions;
// on Windows the permission step is a no-op.
func Install(r io.Reader, destPath string) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(destDir, "."+filepath.Base(destPath)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return fmt.Errorf("copy payload: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	cleanupNeeded = false

	if err := SetExecutable(destPath); err != nil {
		return err
	}

	return nil
}

// SetExecutable sets 0755 (rwxr-xr-x) permissions on a file. On Windows
// there are no executable bits to set, so it does nothing.
func SetExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
