// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperlink pipeline.
package types

import "time"

// SearchResult represents one paper returned by an arXiv query. Results are
// ordered by submission date, newest first, per the arXiv API convention.
type SearchResult struct {
	// Identifier is the trailing path segment of the entry's canonical URL
	// (e.g. "2301.07041v2"). It doubles as the filename key for the PDF cache.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by arXiv.
	Title string `json:"title" yaml:"title"`

	// PDFURL is the downloadable document location.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Published is the submission date.
	Published time.Time `json:"published" yaml:"published"`
}
