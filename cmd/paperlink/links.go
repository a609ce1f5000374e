// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/index"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List repository links discovered by past scans",
	Long: `Links queries the SQLite index written by scan (links.db in the output
directory). Results can be filtered by paper identifier or URL substring.`,
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().String("output-dir", defaultOutputDir, "scan output directory containing links.db")
	linksCmd.Flags().String("paper", "", "filter by paper identifier")
	linksCmd.Flags().String("match", "", "filter by URL substring")
	linksCmd.Flags().Int("limit", 0, "maximum rows to return (0 = all)")
	linksCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	paperID, _ := cmd.Flags().GetString("paper")
	match, _ := cmd.Flags().GetString("match")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	dbPath := filepath.Join(outputDir, index.DBFile)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no link index at %s: run a scan first", dbPath)
	}

	store, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	links, err := store.List(context.Background(), index.Filter{
		PaperID: paperID,
		Match:   match,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}

	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-4s  %-50s  %-18s  %s\n",
		"Paper", "Page", "URL", "Archive", "Snapshot")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, l := range links {
		url := l.URL
		if len(url) > 50 {
			url = url[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-4d  %-50s  %-18s  %s\n",
			l.PaperID, l.Page, url, l.ArchiveStatus, l.SnapshotURL)
	}

	fmt.Fprintf(os.Stdout, "\n%d links\n", len(links))
	return nil
}
