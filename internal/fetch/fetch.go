// Package fetch downloads catalog archives into the run's scratch directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/keson-app/keson-tools/internal/catalog"
)

// DefaultUserAgent is the User-Agent header sent with requests.
const DefaultUserAgent = "keson-tools/1.0"

// Downloader streams remote archives to local scratch files. Downloads are
// single-shot: no retries, no client timeout, no integrity checks. Transport
// failures are recoverable and scoped to one catalog entry.
type Downloader struct {
	client    *http.Client
	userAgent string
	progress  bool
}

// Options configures a Downloader.
type Options struct {
	// Progress renders a byte progress bar on stderr during downloads.
	Progress bool
}

// NewDownloader creates a new downloader.
func NewDownloader(opts Options) *Downloader {
	return &Downloader{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Allow up to 10 redirects
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		progress:  opts.Progress,
	}
}

// FetchArchive downloads the spec's archive into scratchDir under a
// deterministic filename derived from the catalog key and format extension.
// It returns the local path of the downloaded file.
func (d *Downloader) FetchArchive(ctx context.Context, spec catalog.BinarySpec, scratchDir string) (string, error) {
	destPath := filepath.Join(scratchDir, spec.ArchiveName())
	if err := d.downloadToFile(ctx, spec.URL, destPath); err != nil {
		return "", fmt.Errorf("download %s: %w", spec.Key, err)
	}
	return destPath, nil
}

// downloadToFile streams a URL to a file, writing through a temp file and
// renaming into place so a failed download never leaves a partial archive.
func (d *Downloader) downloadToFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var w io.Writer = tmpFile
	if d.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(destPath))
		defer bar.Close()
		w = io.MultiWriter(tmpFile, bar)
	}

	if _, err = io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
