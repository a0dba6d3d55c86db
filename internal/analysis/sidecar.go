package analysis

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ExecutableName appends ".exe" to a sidecar name on Windows.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// ResolveSidecar finds a bundled sidecar executable. It checks the
// directory of the current executable first, then each extra directory,
// and finally falls back to PATH. This mirrors how the desktop app
// resolves its bundled binaries, with PATH standing in for a system
// install during development.
func ResolveSidecar(name string, extraDirs ...string) (string, error) {
	binName := ExecutableName(name)

	var dirs []string
	if exePath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exePath))
	}
	dirs = append(dirs, extraDirs...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, binName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(binName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("sidecar %s not found", binName)
}
