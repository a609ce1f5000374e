// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper is the YAML metadata record written next to each downloaded PDF.
type Paper struct {
	// ID is the cache key, taken from SearchResult.Identifier.
	ID string `json:"id" yaml:"id"`

	// SourceURL is the URL the PDF was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the submission date.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// DownloadedAt records when the PDF was fetched.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}
