// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists discovered repository links in a SQLite database
// so past scans can be queried without rescanning PDFs.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperlink/pkg/types"
)

// DBFile is the database filename created inside the output directory.
const DBFile = "links.db"

// Link is one discovered repository URL with its archive outcome.
type Link struct {
	PaperID       string    `json:"paper_id"`
	PaperTitle    string    `json:"paper_title,omitempty"`
	Page          int       `json:"page"`
	URL           string    `json:"url"`
	ArchiveStatus string    `json:"archive_status,omitempty"`
	SnapshotURL   string    `json:"snapshot_url,omitempty"`
	FoundAt       time.Time `json:"found_at"`
}

// Filter selects a subset of indexed links.
type Filter struct {
	// PaperID restricts results to one paper when non-empty.
	PaperID string
	// Match restricts results to URLs containing the substring when non-empty.
	Match string
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}

// Store manages the link index SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the link index at path, creating the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			scanned_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS links (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id TEXT NOT NULL REFERENCES papers(id),
			page INTEGER NOT NULL,
			url TEXT NOT NULL,
			archive_status TEXT,
			snapshot_url TEXT,
			found_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_paper_id ON links(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_links_url ON links(url)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordScan upserts the paper row and replaces its links with the given
// set. Rescanning a paper never duplicates rows.
func (s *Store) RecordScan(ctx context.Context, paper types.SearchResult, links []Link) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, scanned_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, scanned_at=excluded.scanned_at`,
		paper.Identifier, paper.Title, now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE paper_id = ?`, paper.Identifier); err != nil {
		return fmt.Errorf("deleting old links: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (paper_id, page, url, archive_status, snapshot_url, found_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		foundAt := l.FoundAt
		if foundAt.IsZero() {
			foundAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			paper.Identifier, l.Page, l.URL, l.ArchiveStatus, l.SnapshotURL,
			foundAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting link %s: %w", l.URL, err)
		}
	}

	return tx.Commit()
}

// List returns indexed links matching the filter, oldest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Link, error) {
	query := `SELECT l.paper_id, p.title, l.page, l.url,
			COALESCE(l.archive_status, ''), COALESCE(l.snapshot_url, ''), l.found_at
		FROM links l JOIN papers p ON p.id = l.paper_id`
	var conds []string
	var args []any

	if f.PaperID != "" {
		conds = append(conds, "l.paper_id = ?")
		args = append(args, f.PaperID)
	}
	if f.Match != "" {
		conds = append(conds, "l.url LIKE ?")
		args = append(args, "%"+f.Match+"%")
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY l.rowid"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var foundAt string
		if err := rows.Scan(&l.PaperID, &l.PaperTitle, &l.Page, &l.URL,
			&l.ArchiveStatus, &l.SnapshotURL, &foundAt); err != nil {
			return nil, fmt.Errorf("scanning link row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, foundAt); parseErr == nil {
			l.FoundAt = t
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
