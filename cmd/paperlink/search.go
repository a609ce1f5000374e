package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/search"
	"github.com/pdiddy/paperlink/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv for papers matching a query",
	Long: `Search queries the arXiv API for papers matching a free-text query,
sorted by submission date with the newest first. Results can be printed as a
table or JSON, or saved to a query file for later processing with
scan --from-file.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text arXiv query")
	searchCmd.Flags().Int("max-results", defaultMaxResults, "maximum number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("out", "", "save the query and results to a YAML file")
	searchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("query required: pass it as an argument or with --query")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outFile, _ := cmd.Flags().GetString("out")

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
	}

	backend := &search.Arxiv{Client: &http.Client{Timeout: cfg.Timeout}}
	results, err := backend.Search(context.Background(), query, cfg)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := search.WriteQueryFile(outFile, query, cfg, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file: %s\n", outFile)
	}

	if jsonOutput {
		return search.FormatJSON(results, os.Stdout)
	}
	search.FormatTable(results, os.Stdout)
	return nil
}
