package heartdash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// httpClient is shared by Fetch.
var httpClient = &http.Client{
	Timeout: 2 * time.Minute,
}

// Fetch downloads a raw source file from url to path. The file is written
// under a temporary name and renamed into place, so a failed download never
// leaves a partial source behind. Returns the number of bytes written.
func Fetch(ctx context.Context, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, application/zip, */*")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("creating data directory: %w", err)
		}
	}
	out, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmp := out.Name()

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tmp)
		}
	}()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	// Close explicitly so flush errors are not lost.
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("renaming into %s: %w", path, err)
	}
	success = true
	return n, nil
}
