// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the arXiv API for candidate papers.
package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paperlink/internal/httputil"
	"github.com/pdiddy/paperlink/pkg/types"
)

// Base URLs for the arXiv API. Declared as vars so tests can substitute
// httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// Arxiv queries the arXiv search endpoint. Results come back sorted by
// submission date, newest first, per the service's sortBy parameter.
type Arxiv struct {
	Client *http.Client
}

// Search runs query against arXiv and returns at most cfg.MaxResults results.
func (a *Arxiv) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	q := buildQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, q, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var results []types.SearchResult
	for _, entry := range feed.Entries {
		id := entryIdentifier(entry.ID)
		if id == "" {
			continue
		}

		r := types.SearchResult{
			Identifier: id,
			Title:      strings.TrimSpace(entry.Title),
			Abstract:   strings.TrimSpace(entry.Summary),
			PDFURL:     arxivPDFBase + id,
		}

		for _, au := range entry.Authors {
			r.Authors = append(r.Authors, strings.TrimSpace(au.Name))
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.Published = t
		}

		results = append(results, r)
	}
	return results, nil
}

// buildQuery constructs the search_query parameter from free text. arXiv
// expects terms joined with "+" under the "all:" field prefix.
func buildQuery(freeText string) string {
	terms := strings.Fields(freeText)
	if len(terms) == 0 {
		return ""
	}
	return "all:" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// entryIdentifier returns the trailing path segment of the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1"). The version
// suffix is kept so the cache filename tracks the exact document downloaded.
func entryIdentifier(idURL string) string {
	idURL = strings.TrimRight(idURL, "/")
	idx := strings.LastIndex(idURL, "/")
	if idx < 0 || idx == len(idURL)-1 {
		return ""
	}
	return idURL[idx+1:]
}
