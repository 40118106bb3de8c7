// Package netfetch downloads deployment template files, trying each
// configured source in order until one succeeds.
package netfetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// BaseURLs lists the download sources for deployment templates, in
// preference order.
var BaseURLs = []string{
	"https://raw.githubusercontent.com/agentstack/agentstack/main/deploy",
	"https://mirror.agentstack.dev/deploy",
}

const timeout = 30 * time.Second

// Client is the HTTP client used for template downloads. Overridable
// in tests.
var Client = &http.Client{Timeout: timeout}

// File downloads filename (relative to each base URL) to output,
// falling back through the sources on failure.
func File(filename, output string) error {
	var lastErr error
	for _, base := range BaseURLs {
		if err := URL(base+"/"+filename, output); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all sources failed for %s: %w", filename, lastErr)
}

// URL downloads a single URL to output.
func URL(url, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	resp, err := Client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
