// Package cache is an optional, on-disk, content-hash-keyed per-file
// findings cache backed by SQLite. Grounded on the teacher's internal/store
// (mvp-joe-canopy), which persists every extraction row to SQLite for
// incremental reindexing; polyglint's Validation Service is single-run and
// in-memory by contract (spec §3 Lifecycle, §5 Resource policy), so this
// package narrows the teacher's 16-table schema down to the one thing a
// per-run engine can use a cache for: skipping re-parse and re-rule work
// for files whose content hash is unchanged since the last run recorded
// against this path, per SPEC_FULL's "Incremental analysis" supplement.
// Invalidation is per-file content hash only — not the teacher's
// blast-radius symbol-signature propagation (see DESIGN.md), since
// AnalyzeIncremental falls back to a full run whenever a Tier-2 rule is
// selected, and no Tier-0/1 built-in rule's result depends on another
// file's symbols.
//
// Unused (RunConfig.cache_path == "") by default; ValidatePaths/
// ValidateProject behave identically to a fresh run either way.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is the SQLite-backed snapshot store.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path with WAL
// mode enabled, mirroring the teacher's store.NewStore connection string.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", path, err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error { return c.db.Close() }

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  path          TEXT PRIMARY KEY,
  language      TEXT NOT NULL,
  content_hash  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  file_path  TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
  rule_id    TEXT NOT NULL,
  message    TEXT NOT NULL,
  start_byte INTEGER NOT NULL,
  end_byte   INTEGER NOT NULL,
  severity   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_findings_file ON findings(file_path);
`

func (c *Cache) migrate() error {
	if _, err := c.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("cache: migrate: %w", err)
	}
	return nil
}

// ContentHash computes the stable content hash of a file's bytes, used as
// the unit of change detection (location-independent, unlike a mtime).
func ContentHash(text []byte) string {
	sum := sha256.Sum256(text)
	return hex.EncodeToString(sum[:])
}

// FileState is one file's cached record: its last-seen language and
// content hash, the unit of change detection AnalyzeIncremental uses to
// decide whether a file needs re-parsing and re-ruling.
type FileState struct {
	Path        string
	Language    string
	ContentHash string
}

// Load returns the cached state for path, or ok=false if path has never
// been recorded.
func (c *Cache) Load(path string) (FileState, bool, error) {
	var fs FileState
	fs.Path = path
	err := c.db.QueryRow("SELECT language, content_hash FROM files WHERE path = ?", path).Scan(&fs.Language, &fs.ContentHash)
	if err == sql.ErrNoRows {
		return FileState{}, false, nil
	}
	if err != nil {
		return FileState{}, false, fmt.Errorf("cache: load %s: %w", path, err)
	}
	return fs, true, nil
}

// Store replaces the cached state for fs.Path with fs, in a transaction.
func (c *Cache) Store(fs FileState) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin store: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO files (path, language, content_hash) VALUES (?, ?, ?) ON CONFLICT(path) DO UPDATE SET language=excluded.language, content_hash=excluded.content_hash",
		fs.Path, fs.Language, fs.ContentHash,
	); err != nil {
		return fmt.Errorf("cache: upsert file %s: %w", fs.Path, err)
	}
	return tx.Commit()
}

// StoreFindings replaces the cached findings for path, so a cache hit can
// be served without re-running rules at all.
func (c *Cache) StoreFindings(path string, findings []CachedFinding) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin store findings: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM findings WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("cache: clear findings for %s: %w", path, err)
	}
	for _, f := range findings {
		if _, err := tx.Exec(
			"INSERT INTO findings (file_path, rule_id, message, start_byte, end_byte, severity) VALUES (?, ?, ?, ?, ?, ?)",
			path, f.RuleID, f.Message, f.Start, f.End, f.Severity,
		); err != nil {
			return fmt.Errorf("cache: insert finding for %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// Findings returns the cached findings for path.
func (c *Cache) Findings(path string) ([]CachedFinding, error) {
	rows, err := c.db.Query("SELECT rule_id, message, start_byte, end_byte, severity FROM findings WHERE file_path = ?", path)
	if err != nil {
		return nil, fmt.Errorf("cache: findings for %s: %w", path, err)
	}
	defer rows.Close()
	var out []CachedFinding
	for rows.Next() {
		var f CachedFinding
		if err := rows.Scan(&f.RuleID, &f.Message, &f.Start, &f.End, &f.Severity); err != nil {
			return nil, fmt.Errorf("cache: scan finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CachedFinding is a Finding flattened to the columns findings stores.
type CachedFinding struct {
	RuleID   string
	Message  string
	Start    int
	End      int
	Severity string
}

