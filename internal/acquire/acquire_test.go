// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperlink/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake test document"

func TestPDFPath(t *testing.T) {
	assert.Equal(t, filepath.Join("pdfs", "2301.07041v1.pdf"), PDFPath("pdfs", "2301.07041v1"))
}

func TestDownloadWritesPDFAndMetadata(t *testing.T) {
	var gotUA atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, fakePDFContent)
	}))
	defer ts.Close()

	dir := t.TempDir()
	result := types.SearchResult{
		Identifier: "2301.07041v1",
		Title:      "A Paper",
		PDFURL:     ts.URL + "/pdf/2301.07041v1",
		Authors:    []string{"Alice Example"},
		Published:  time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
	}

	d := &HTTPDownloader{Client: ts.Client(), UserAgent: "paperlink-test/0"}
	dest := PDFPath(dir, result.Identifier)
	require.NoError(t, d.Download(context.Background(), result, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))
	assert.Equal(t, "paperlink-test/0", gotUA.Load())

	paper, err := ReadMetadata(dest)
	require.NoError(t, err)
	assert.Equal(t, "2301.07041v1", paper.ID)
	assert.Equal(t, result.PDFURL, paper.SourceURL)
	assert.Equal(t, dest, paper.PDFPath)
	assert.Equal(t, "A Paper", paper.Title)
	assert.Equal(t, []string{"Alice Example"}, paper.Authors)
	assert.False(t, paper.DownloadedAt.IsZero())

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDownloadHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dir := t.TempDir()
	result := types.SearchResult{Identifier: "2301.07041v1", PDFURL: ts.URL + "/pdf/2301.07041v1"}

	d := &HTTPDownloader{Client: ts.Client(), UserAgent: "paperlink-test/0"}
	err := d.Download(context.Background(), result, PDFPath(dir, result.Identifier))
	assert.ErrorContains(t, err, "HTTP 404")

	// Nothing written on failure.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestReadMetadataMissing(t *testing.T) {
	_, err := ReadMetadata(filepath.Join(t.TempDir(), "none.pdf"))
	assert.Error(t, err)
}
