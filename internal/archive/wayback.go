// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive submits URLs to the Internet Archive Wayback Machine.
// Each URL costs at most two calls: one availability lookup and, when no
// snapshot exists yet, one Save Page Now submission.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/paperlink/internal/httputil"
)

// Wayback endpoints. Declared as vars so tests can substitute httptest servers.
var (
	availabilityAPIBase = "https://archive.org/wayback/available"
	saveAPIBase         = "https://web.archive.org/save/"
)

// Status classifies the result of one archive request.
type Status string

const (
	StatusAlreadyArchived Status = "already_archived"
	StatusNewlyArchived   Status = "newly_archived"
	StatusFailed          Status = "failed"
)

// Outcome is the per-URL result of an archive request.
type Outcome struct {
	// URL is the target that was looked up or submitted.
	URL string

	// Status is the archive state after the request.
	Status Status

	// SnapshotURL is the existing snapshot when Status is StatusAlreadyArchived.
	SnapshotURL string

	// StatusCode is the HTTP status of a rejected save submission when
	// Status is StatusFailed.
	StatusCode int
}

// String renders the outcome as a single log-friendly line.
func (o Outcome) String() string {
	switch o.Status {
	case StatusAlreadyArchived:
		return fmt.Sprintf("already archived: %s -> %s", o.URL, o.SnapshotURL)
	case StatusNewlyArchived:
		return fmt.Sprintf("archived: %s", o.URL)
	default:
		return fmt.Sprintf("archive failed: %s (HTTP %d)", o.URL, o.StatusCode)
	}
}

// Requester performs availability lookups and save submissions against the
// Wayback Machine.
type Requester struct {
	Client    *http.Client
	UserAgent string

	// AccessKey and SecretKey hold optional archive.org S3-style credentials
	// for Save Page Now. When both are set, submissions carry an
	// "Authorization: LOW key:secret" header.
	AccessKey string
	SecretKey string
}

// availabilityResponse mirrors the Wayback availability API JSON body.
type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			URL       string `json:"url"`
			Available bool   `json:"available"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Archive checks whether target already has a snapshot and submits a save
// request when it does not. A rejected submission (non-2xx) is a normal
// Failed outcome, not an error. Network failure of either call, or a
// malformed availability body, returns an error; the caller treats that as
// a per-document fault.
func (r *Requester) Archive(ctx context.Context, target string) (Outcome, error) {
	snapshot, err := r.lookup(ctx, target)
	if err != nil {
		return Outcome{}, err
	}
	if snapshot != "" {
		return Outcome{URL: target, Status: StatusAlreadyArchived, SnapshotURL: snapshot}, nil
	}
	return r.save(ctx, target)
}

// lookup queries the availability endpoint and returns the closest snapshot
// URL, or "" when the target has never been archived.
func (r *Requester) lookup(ctx context.Context, target string) (string, error) {
	q := url.Values{}
	q.Set("url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, availabilityAPIBase+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating availability request: %w", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("availability query for %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("availability query for %s returned HTTP %d", target, resp.StatusCode)
	}

	var body availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing availability response for %s: %w", target, err)
	}
	return body.ArchivedSnapshots.Closest.URL, nil
}

// save submits target to Save Page Now.
func (r *Requester) save(ctx context.Context, target string) (Outcome, error) {
	form := url.Values{}
	form.Set("url", target)
	form.Set("capture_all", "on")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		saveAPIBase+target, strings.NewReader(form.Encode()))
	if err != nil {
		return Outcome{}, fmt.Errorf("creating save request: %w", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if r.AccessKey != "" && r.SecretKey != "" {
		req.Header.Set("Authorization", "LOW "+r.AccessKey+":"+r.SecretKey)
	}

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		return Outcome{}, fmt.Errorf("save submission for %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return Outcome{URL: target, Status: StatusNewlyArchived}, nil
	}
	return Outcome{URL: target, Status: StatusFailed, StatusCode: resp.StatusCode}, nil
}
