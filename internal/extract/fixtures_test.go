package extract

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ulikunitz/xz"
)

// createTestZip writes a zip archive containing the given members.
func createTestZip(t *testing.T, files map[string]string) string {
	t.Helper()

	archivePath := filepath.Join(t.TempDir(), "test.zip")
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = archiveFile.Close() }()

	zipWriter := zip.NewWriter(archiveFile)
	defer func() { _ = zipWriter.Close() }()

	for _, name := range sortedKeys(files) {
		w, err := zipWriter.Create(name)
		if err != nil {
			t.Fatalf("failed to create member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write member %s: %v", name, err)
		}
	}

	return archivePath
}

// createTestTarXz writes an xz-compressed tar archive containing the
// given members.
func createTestTarXz(t *testing.T, files map[string]string) string {
	t.Helper()

	archivePath := filepath.Join(t.TempDir(), "test.tar.xz")
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = archiveFile.Close() }()

	xzWriter, err := xz.NewWriter(archiveFile)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	defer func() { _ = xzWriter.Close() }()

	tarWriter := tar.NewWriter(xzWriter)
	defer func() { _ = tarWriter.Close() }()

	for _, name := range sortedKeys(files) {
		content := files[name]
		header := &tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := tarWriter.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	return archivePath
}

// collectSink records each delivered payload's content by target name.
func collectSink(t *testing.T, got map[string]string) Sink {
	t.Helper()

	return func(target string, r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		got[target] = string(data)
		return nil
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
