package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/keson-app/keson-tools/internal/catalog"
	"github.com/keson-app/keson-tools/internal/platform"
)

// fakeDetector reports a fixed platform.
type fakeDetector struct {
	info *platform.Info
}

func (d *fakeDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return d.info, nil
}

// buildZip returns zip archive bytes containing the given members.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		member, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := member.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunInstallsBinaries(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"bin/ffmpeg.exe":  "ffmpeg bytes",
		"bin/ffprobe.exe": "ffprobe bytes",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	destDir := t.TempDir()
	p, err := New(Options{
		DestDir: destDir,
		Specs: []catalog.BinarySpec{{
			Key:    "win64",
			URL:    server.URL,
			Format: catalog.FormatZip,
			Locator: catalog.PathLocator{
				Dir: "bin",
				Binaries: []catalog.Mapping{
					{Source: "ffmpeg.exe", Target: "ffmpeg-x86_64-pc-windows-msvc.exe"},
					{Source: "ffprobe.exe", Target: "ffprobe-x86_64-pc-windows-msvc.exe"},
				},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"ffmpeg-x86_64-pc-windows-msvc.exe",
		"ffprobe-x86_64-pc-windows-msvc.exe",
	}
	got := listDir(t, destDir)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("installed files = %v, want %v", got, want)
	}

	data, err := os.ReadFile(filepath.Join(destDir, want[0]))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ffmpeg bytes" {
		t.Errorf("installed content = %q", data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(destDir, want[0]))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Error("installed binary is not executable")
		}
	}
}

func TestRunFailureIsolation(t *testing.T) {
	archive := buildZip(t, map[string]string{"ffmpeg": "ffmpeg bytes"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			_, _ = w.Write(archive)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	destDir := t.TempDir()
	p, err := New(Options{
		DestDir: destDir,
		Specs: []catalog.BinarySpec{
			{
				Key:    "broken",
				URL:    server.URL + "/missing",
				Format: catalog.FormatZip,
				Locator: catalog.PathLocator{
					Binaries: []catalog.Mapping{{Source: "ffmpeg", Target: "never-installed"}},
				},
			},
			{
				Key:    "good",
				URL:    server.URL + "/good",
				Format: catalog.FormatZip,
				Locator: catalog.PathLocator{
					Binaries: []catalog.Mapping{{Source: "ffmpeg", Target: "ffmpeg-x86_64-apple-darwin"}},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// A failing entry must not fail the run or block later entries.
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := listDir(t, destDir)
	if len(got) != 1 || got[0] != "ffmpeg-x86_64-apple-darwin" {
		t.Errorf("installed files = %v, want only the good entry", got)
	}
}

func TestRunUnsupportedPlatform(t *testing.T) {
	p, err := New(Options{
		DestDir:  t.TempDir(),
		Detector: &fakeDetector{info: &platform.Info{OS: "plan9", Arch: "amd64"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = p.Run(context.Background())
	if !errors.Is(err, catalog.ErrUnsupportedPlatform) {
		t.Fatalf("Run() error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestRunIdempotent(t *testing.T) {
	archive := buildZip(t, map[string]string{"ffmpeg": "stable bytes"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	destDir := t.TempDir()
	p, err := New(Options{
		DestDir: destDir,
		Specs: []catalog.BinarySpec{{
			Key:    "mac",
			URL:    server.URL,
			Format: catalog.FormatZip,
			Locator: catalog.PathLocator{
				Binaries: []catalog.Mapping{{Source: "ffmpeg", Target: "ffmpeg-x86_64-apple-darwin"}},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := listDir(t, destDir)

	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := listDir(t, destDir)

	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("file set changed across runs: %v then %v", first, second)
	}
}

func TestRunCleansScratchDir(t *testing.T) {
	// Point the scratch area at a private temp dir so leftovers are visible.
	destDir := t.TempDir()
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)
	if runtime.GOOS == "windows" {
		t.Setenv("TMP", tmpRoot)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	p, err := New(Options{
		DestDir: destDir,
		Specs: []catalog.BinarySpec{{
			Key:    "broken",
			URL:    server.URL,
			Format: catalog.FormatZip,
			Locator: catalog.PathLocator{
				Binaries: []catalog.Mapping{{Source: "ffmpeg", Target: "ffmpeg"}},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := listDir(t, tmpRoot); len(got) != 0 {
		t.Errorf("scratch leftovers after run: %v", got)
	}
}

func TestNewRequiresDestDir(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New() expected error for missing DestDir")
	}
}
