package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestLoadMissingFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.json"), 0)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Load(path, 0)
	if c.Len() != 0 {
		t.Errorf("Len() = %d after corrupt load, want 0", c.Len())
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	c := Load(path, 0)

	c.Put("abc", Entry{
		Bitrate:    intPtr(256),
		IsLossless: boolPtr(false),
		Note:       strPtr("MP3 CBR"),
	})
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load(path, 0)
	e, ok := reloaded.Get("abc")
	if !ok {
		t.Fatal("Get() after reload = false")
	}
	if e.Bitrate == nil || *e.Bitrate != 256 {
		t.Errorf("Bitrate = %v, want 256", e.Bitrate)
	}
	if e.IsLossless == nil || *e.IsLossless {
		t.Errorf("IsLossless = %v, want false", e.IsLossless)
	}
	if e.Note == nil || *e.Note != "MP3 CBR" {
		t.Errorf("Note = %v, want MP3 CBR", e.Note)
	}
}

func TestGetMissing(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), 0)
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache = true")
	}
}

func TestNilFieldsSurviveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Load(path, 0)
	c.Put("x", Entry{Note: strPtr("decode failed")})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	e, ok := Load(path, 0).Get("x")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if e.Bitrate != nil || e.IsLossless != nil {
		t.Errorf("expected nil bitrate and is_lossless, got %+v", e)
	}
}

func TestPutEnforcesLimit(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), 5)
	for i := 0; i < 20; i++ {
		c.Put(strconv.Itoa(i), Entry{Bitrate: intPtr(i)})
	}
	if c.Len() > 5 {
		t.Errorf("Len() = %d, want <= 5", c.Len())
	}
}

func TestLoadEnforcesLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	big := Load(path, 0)
	for i := 0; i < 20; i++ {
		big.Put(strconv.Itoa(i), Entry{})
	}
	if err := big.Save(); err != nil {
		t.Fatal(err)
	}

	small := Load(path, 3)
	if small.Len() > 3 {
		t.Errorf("Len() = %d after limited load, want <= 3", small.Len())
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash() error = %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("FileHash() = %s, want %s", got, want)
	}
}

func TestFileHashMissing(t *testing.T) {
	if _, err := FileHash(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("FileHash() on missing file did not error")
	}
}

func TestDefaultPathOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KESON_CACHE_DIR", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if got != filepath.Join(dir, "analysis-cache.json") {
		t.Errorf("DefaultPath() = %s, want under %s", got, dir)
	}
}
