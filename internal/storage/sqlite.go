// Package storage maintains an ephemeral SQLite cache of parsed
// entries for fast listing and full-text search. The .bib document is
// the source of truth; the database is rebuilt from it wholesale.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bibfold/bibfold/internal/bibtex"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectEntryFields contains the standard field list for SELECT queries.
const selectEntryFields = `key, type, title, author, venue, year, doi, fields_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Main entries table
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT,
			author TEXT,
			venue TEXT,
			year INTEGER,
			doi TEXT,
			fields_json TEXT NOT NULL
		);

		-- Index for year grouping
		CREATE INDEX IF NOT EXISTS idx_entries_year ON entries(year);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			key,
			title,
			author,
			venue,
			year
		);
	`

	_, err := db.Exec(schema)
	return err
}

// ReplaceAll clears the database and repopulates it from entries.
// Duplicate citation keys keep the last entry; the renderer, which
// works from the document directly, keeps all. Returns the number of
// entries cached, which equals Count after the rebuild.
func (d *DB) ReplaceAll(entries []bibtex.Entry) (int, error) {
	entries = dedupeByKey(entries)

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (key, type, title, author, venue, year, doi, fields_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (key, title, author, venue, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, e := range entries {
		fieldsJSON, err := json.Marshal(e.Fields)
		if err != nil {
			return 0, fmt.Errorf("marshaling fields for %s: %w", e.Key, err)
		}

		title := e.Title()
		author := e.Field("author")
		venue := entryVenue(e)

		_, err = entryStmt.Exec(e.Key, e.Type, title, author, venue, e.Year(), e.DOI(), string(fieldsJSON))
		if err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", e.Key, err)
		}

		_, err = ftsStmt.Exec(e.Key, title, bibtex.StripBraces(author), venue, strconv.Itoa(e.Year()))
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(entries), nil
}

// dedupeByKey collapses duplicate citation keys, keeping the last
// occurrence at the first occurrence's position. entries_fts has no
// key constraint, so duplicates must not reach the insert loop.
func dedupeByKey(entries []bibtex.Entry) []bibtex.Entry {
	seen := make(map[string]int, len(entries))
	var out []bibtex.Entry
	for _, e := range entries {
		if at, ok := seen[e.Key]; ok {
			out[at] = e
			continue
		}
		seen[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

// entryVenue returns the journal or booktitle field, braces stripped.
func entryVenue(e bibtex.Entry) string {
	venue := e.Field("journal")
	if venue == "" {
		venue = e.Field("booktitle")
	}
	return bibtex.StripBraces(venue)
}

// GetByKey retrieves an entry by its citation key.
// Returns nil without error when the key is not cached.
func (d *DB) GetByKey(key string) (*bibtex.Entry, error) {
	row := d.db.QueryRow(`SELECT `+selectEntryFields+` FROM entries WHERE key = ?`, key)
	return scanEntry(row)
}

// Search performs a full-text search over keys, titles, authors,
// venues, and years.
func (d *DB) Search(query string, limit int) ([]bibtex.Entry, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries
		WHERE key IN (SELECT key FROM entries_fts WHERE entries_fts MATCH ?)
		ORDER BY year DESC
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		// FTS5 rejects some query syntax outright; fall back to a
		// plain substring match so odd queries still return results.
		return d.searchLike(query, limit)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// searchLike is the non-FTS fallback search.
func (d *DB) searchLike(query string, limit int) ([]bibtex.Entry, error) {
	pattern := "%" + query + "%"
	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries
		WHERE title LIKE ? OR author LIKE ? OR key LIKE ?
		ORDER BY year DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll returns all entries ordered newest first, optionally limited.
func (d *DB) ListAll(limit int) ([]bibtex.Entry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM entries ORDER BY year DESC, key`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the total number of cached entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*bibtex.Entry, error) {
	var e bibtex.Entry
	var title, author, venue, doi sql.NullString
	var year sql.NullInt64
	var fieldsJSON string

	err := s.Scan(&e.Key, &e.Type, &title, &author, &venue, &year, &doi, &fieldsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields for %s: %w", e.Key, err)
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]bibtex.Entry, error) {
	var entries []bibtex.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
