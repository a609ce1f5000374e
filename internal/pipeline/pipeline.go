// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives search results through download, page-text
// extraction, link discovery, and optional Wayback archival. Each paper is
// processed independently; one paper's failure never aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/paperlink/internal/acquire"
	"github.com/pdiddy/paperlink/internal/archive"
	"github.com/pdiddy/paperlink/internal/extract"
	"github.com/pdiddy/paperlink/internal/index"
	"github.com/pdiddy/paperlink/internal/report"
	"github.com/pdiddy/paperlink/pkg/types"
)

// Downloader fetches one result's document to destPath. The pipeline decides
// whether a download is needed; implementations only fetch.
type Downloader interface {
	Download(ctx context.Context, result types.SearchResult, destPath string) error
}

// Archiver submits one URL to the archiving service.
type Archiver interface {
	Archive(ctx context.Context, url string) (archive.Outcome, error)
}

// Fault records one paper's failure for the batch summary.
type Fault struct {
	Identifier string
	Err        error
}

// BatchResult aggregates per-paper outcomes across a run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	LinksFound int
	Archived   int
	Faults     []Fault
}

// Total returns the number of papers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline holds the collaborators for a scan run. Index and Archiver are
// optional; Archiver is only consulted when the config enables archiving.
type Pipeline struct {
	Downloader Downloader
	Pages      extract.PageTexts
	Finder     *extract.LinkFinder
	Archiver   Archiver
	Index      *index.Store
	Reporter   report.Reporter
}

// Run processes results in order. It creates cfg.OutputDir first; a failure
// there aborts the run since no paper can proceed without the cache
// directory. Everything after that is isolated per paper.
func (p *Pipeline) Run(ctx context.Context, results []types.SearchResult, cfg types.ScanConfig) (BatchResult, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	var res BatchResult
	for i, r := range results {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		if err := p.processPaper(ctx, r, cfg, &res); err != nil {
			p.Reporter.Errorf("failed: %s (%v)", r.Identifier, err)
			res.Failed++
			res.Faults = append(res.Faults, Fault{Identifier: r.Identifier, Err: err})
		}
	}

	p.Reporter.Infof("\nScan summary: %d downloaded, %d skipped, %d failed; %d links found, %d archived (total: %d)",
		res.Downloaded, res.Skipped, res.Failed, res.LinksFound, res.Archived, res.Total())
	return res, nil
}

// processPaper runs the download/extract/archive stages for one result.
// Any returned error is this paper's fault and is absorbed by Run.
func (p *Pipeline) processPaper(ctx context.Context, r types.SearchResult, cfg types.ScanConfig, res *BatchResult) error {
	dest := acquire.PDFPath(cfg.OutputDir, r.Identifier)

	downloaded := false
	if _, err := os.Stat(dest); err == nil {
		p.Reporter.Infof("skipped: %s (already downloaded)", r.Identifier)
	} else {
		p.Reporter.Infof("downloading: %s", r.Identifier)
		if err := p.Downloader.Download(ctx, r, dest); err != nil {
			return fmt.Errorf("downloading: %w", err)
		}
		downloaded = true
	}

	pages, err := p.Pages.Pages(dest)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	var found []index.Link
	headerPrinted := false
	for pageNo, text := range pages {
		links := p.Finder.Find(text)
		if len(links) == 0 {
			continue
		}

		if !headerPrinted {
			p.Reporter.Infof("paper: %s", r.Title)
			p.Reporter.Infof("id: %s", r.Identifier)
			headerPrinted = true
		}

		for _, link := range links {
			res.LinksFound++
			row := index.Link{Page: pageNo + 1, URL: link}

			if cfg.ArchiveEnabled && p.Archiver != nil {
				out, archiveErr := p.Archiver.Archive(ctx, link)
				if archiveErr != nil {
					// Archive-query faults stop link processing for this
					// paper but the rest of the batch continues.
					p.recordLinks(ctx, r, found)
					return fmt.Errorf("archiving %s: %w", link, archiveErr)
				}
				p.Reporter.Infof("  %s", out)
				row.ArchiveStatus = string(out.Status)
				row.SnapshotURL = out.SnapshotURL
				if out.Status != archive.StatusFailed {
					res.Archived++
				}
			} else {
				p.Reporter.Infof("  %s", link)
			}

			found = append(found, row)
		}
	}

	p.recordLinks(ctx, r, found)

	// A paper counts once: downloaded, skipped, or (in the caller) failed.
	if downloaded {
		res.Downloaded++
	} else {
		res.Skipped++
	}
	return nil
}

// recordLinks persists discovered links when an index store is attached.
// Index write failures are reported but do not fail the paper; the index is
// a convenience view, not the source of truth.
func (p *Pipeline) recordLinks(ctx context.Context, r types.SearchResult, links []index.Link) {
	if p.Index == nil || len(links) == 0 {
		return
	}
	if err := p.Index.RecordScan(ctx, r, links); err != nil {
		p.Reporter.Warnf("indexing links for %s: %v", r.Identifier, err)
	}
}
