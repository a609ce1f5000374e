// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperlink/internal/acquire"
	"github.com/pdiddy/paperlink/internal/archive"
	"github.com/pdiddy/paperlink/internal/extract"
	"github.com/pdiddy/paperlink/internal/index"
	"github.com/pdiddy/paperlink/internal/pipeline"
	"github.com/pdiddy/paperlink/internal/report"
	"github.com/pdiddy/paperlink/internal/search"
	"github.com/pdiddy/paperlink/pkg/types"
)

const (
	defaultQuery      = "quantum"
	defaultMaxResults = 10
	defaultOutputDir  = "pdfs"
	defaultTimeout    = 60 * time.Second
	defaultDelay      = 1 * time.Second
	defaultUserAgent  = "paperlink/0.1"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Search arXiv, download PDFs, and extract repository links",
	Long: `Scan runs the full pipeline: it queries arXiv for papers matching the
query, downloads each PDF into the output directory (skipping PDFs already
present), scans every page for hosting-site links, and reports them. With
--archive, each discovered link is submitted to the Wayback Machine unless a
snapshot already exists.

Discovered links are recorded in a SQLite index (links.db in the output
directory) for later inspection with the links subcommand.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("query", defaultQuery, "free-text arXiv query")
	scanCmd.Flags().Int("max-results", defaultMaxResults, "maximum number of search results")
	scanCmd.Flags().Bool("archive", false, "submit discovered links to the Wayback Machine")
	scanCmd.Flags().String("output-dir", defaultOutputDir, "PDF cache directory")
	scanCmd.Flags().String("from-file", "", "process results from a saved query file instead of searching")
	scanCmd.Flags().String("link-host", extract.DefaultHost, "hosting site whose URLs are extracted")
	scanCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	scanCmd.Flags().Duration("delay", defaultDelay, "delay between consecutive downloads")
	scanCmd.Flags().Bool("no-index", false, "do not record discovered links in links.db")

	// Config file and PAPERLINK_* env values back these flags; an explicit
	// flag still wins.
	viper.BindPFlag("scan.query", scanCmd.Flags().Lookup("query"))
	viper.BindPFlag("scan.max_results", scanCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("scan.archive", scanCmd.Flags().Lookup("archive"))
	viper.BindPFlag("scan.output_dir", scanCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("scan.link_host", scanCmd.Flags().Lookup("link-host"))

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	query := viper.GetString("scan.query")
	maxResults := viper.GetInt("scan.max_results")
	archiveEnabled := viper.GetBool("scan.archive")
	outputDir := viper.GetString("scan.output_dir")
	linkHost := viper.GetString("scan.link_host")

	fromFile, _ := cmd.Flags().GetString("from-file")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delay, _ := cmd.Flags().GetDuration("delay")
	noIndex, _ := cmd.Flags().GetBool("no-index")

	cfg := types.ScanConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		OutputDir:      outputDir,
		ArchiveEnabled: archiveEnabled,
		DownloadDelay:  delay,
		LinkHost:       linkHost,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	rep := report.New(os.Stdout)
	ctx := context.Background()

	var results []types.SearchResult
	if fromFile != "" {
		qf, err := search.ReadQueryFile(fromFile)
		if err != nil {
			return err
		}
		results = qf.Results
	} else {
		searchCfg := types.SearchConfig{HTTPConfig: cfg.HTTPConfig, MaxResults: maxResults}
		backend := &search.Arxiv{Client: client}
		var err error
		results, err = backend.Search(ctx, query, searchCfg)
		if err != nil {
			return err
		}
	}

	for _, r := range results {
		rep.Infof("found: %s", r.Identifier)
	}

	p := &pipeline.Pipeline{
		Downloader: &acquire.HTTPDownloader{Client: client, UserAgent: cfg.UserAgent},
		Pages:      extract.PDFReader{},
		Finder:     extract.NewLinkFinder(cfg.LinkHost),
		Archiver:   newRequester(client),
		Reporter:   rep,
	}

	if !noIndex {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
		}
		store, err := index.Open(filepath.Join(cfg.OutputDir, index.DBFile))
		if err != nil {
			return err
		}
		defer store.Close()
		p.Index = store
	}

	res, err := p.Run(ctx, results, cfg)
	if err != nil {
		return err
	}

	rep.Infof("done")
	if res.HasFailures() {
		return fmt.Errorf("%d paper(s) failed", res.Failed)
	}
	return nil
}

// newRequester builds a Wayback requester, picking up optional Save Page Now
// credentials from the secrets directory.
func newRequester(client *http.Client) *archive.Requester {
	return &archive.Requester{
		Client:    client,
		UserAgent: defaultUserAgent,
		AccessKey: secretDefault("wayback-access-key", ""),
		SecretKey: secretDefault("wayback-secret-key", ""),
	}
}
