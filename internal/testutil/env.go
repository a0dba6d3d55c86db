// Package testutil provides utilities for testing keson-tools in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points the keson config and cache directory overrides at
// per-test temp directories so tests never touch the user's real
// configuration or analysis cache.
//
// Cleanup is handled by t.TempDir(), so callers don't need to clean up.
func SetupTestEnv(t *testing.T) {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("KESON_CONFIG_DIR", filepath.Join(tmpDir, "config"))
	t.Setenv("KESON_CACHE_DIR", filepath.Join(tmpDir, "cache"))

	dirs := []string{
		filepath.Join(tmpDir, "config"),
		filepath.Join(tmpDir, "cache"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
}
