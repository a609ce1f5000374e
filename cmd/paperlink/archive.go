// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/report"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [urls...]",
	Short: "Submit URLs to the Wayback Machine",
	Long: `Archive checks each URL against the Wayback availability API and submits
a Save Page Now request for URLs without an existing snapshot. A rejected
submission is reported with its HTTP status; only network-level failures
count as errors.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more URLs to archive")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	client := &http.Client{Timeout: timeout}
	requester := newRequester(client)
	rep := report.New(os.Stdout)
	ctx := context.Background()

	failed := 0
	for _, target := range args {
		out, err := requester.Archive(ctx, target)
		if err != nil {
			rep.Errorf("%s: %v", target, err)
			failed++
			continue
		}
		rep.Infof("%s", out)
	}

	if failed > 0 {
		return fmt.Errorf("%d URL(s) failed", failed)
	}
	return nil
}
