// Package acquire downloads paper PDFs and writes metadata records.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperlink/pkg/types"
)

// PDFPath returns the cache destination for a result inside dir. The
// identifier is the filename key; presence of the file is what the pipeline
// checks before downloading.
func PDFPath(dir, identifier string) string {
	return filepath.Join(dir, identifier+".pdf")
}

// HTTPDownloader fetches documents over HTTP. It implements the pipeline's
// Downloader interface.
type HTTPDownloader struct {
	Client    *http.Client
	UserAgent string
}

// Download fetches result's PDF to destPath and writes a YAML metadata
// sidecar next to it. The PDF lands via a temporary file renamed on success
// so an interrupted run never leaves a half-written cache entry.
func (d *HTTPDownloader) Download(ctx context.Context, result types.SearchResult, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.PDFURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, result.PDFURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	if err := writeMetadata(result, destPath); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", result.Identifier, err)
	}
	return nil
}

// writeMetadata writes the Paper record as <identifier>.yaml next to the PDF.
func writeMetadata(result types.SearchResult, pdfPath string) error {
	p := types.Paper{
		ID:           result.Identifier,
		SourceURL:    result.PDFURL,
		PDFPath:      pdfPath,
		Title:        result.Title,
		Authors:      result.Authors,
		Published:    result.Published,
		DownloadedAt: time.Now().UTC(),
	}

	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	metaPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
	return os.WriteFile(metaPath, data, 0o644)
}

// ReadMetadata reads a Paper record from the YAML sidecar for pdfPath.
func ReadMetadata(pdfPath string) (*types.Paper, error) {
	metaPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var p types.Paper
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
