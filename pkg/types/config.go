// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperlink/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results to return (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ScanConfig holds settings for the download/extract/archive pipeline.
type ScanConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the PDF cache directory, created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ArchiveEnabled submits discovered links to the Wayback Machine when true.
	// When false, links are reported only.
	ArchiveEnabled bool `json:"archive_enabled" yaml:"archive_enabled"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// LinkHost is the hosting site whose URLs are extracted (default "github.com").
	LinkHost string `json:"link_host" yaml:"link_host"`
}
