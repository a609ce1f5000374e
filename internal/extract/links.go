// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds hosting-site links in page text pulled from
// downloaded PDFs.
package extract

import "regexp"

// DefaultHost is the hosting site scanned for when none is configured.
const DefaultHost = "github.com"

// LinkFinder matches URLs pointing at a fixed hosting site. The pattern is
// https?://<host>/ followed by one or more characters that are neither
// whitespace nor a comma, so a trailing comma or line break never leaks
// into a match.
type LinkFinder struct {
	re *regexp.Regexp
}

// NewLinkFinder builds a finder for the given host (e.g. "github.com").
// An empty host falls back to DefaultHost.
func NewLinkFinder(host string) *LinkFinder {
	if host == "" {
		host = DefaultHost
	}
	return &LinkFinder{
		re: regexp.MustCompile(`https?://` + regexp.QuoteMeta(host) + `/[^\s,]+`),
	}
}

// Find returns every match in text in order of appearance. Duplicates are
// kept; text without matches yields nil.
func (f *LinkFinder) Find(text string) []string {
	return f.re.FindAllString(text, -1)
}
