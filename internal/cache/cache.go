// Package cache persists per-file lint results in SQLite, keyed by content
// hash. The cache is sound only for isolated runs: once cross-module
// resolution is on, a file's diagnostics can depend on other files, so the
// runtime skips the cache entirely in that mode.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/xxh3"

	"github.com/DeusData/modlint/internal/diag"
)

// Cache wraps a SQLite connection for lint-result storage.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// DefaultPath returns the default cache database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "modlint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return filepath.Join(dir, "results.db"), nil
}

// Open opens or creates a result cache at the given path.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	c := &Cache{db: db, dbPath: dbPath}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return c, nil
}

// OpenMemory opens an in-memory result cache (for testing).
func OpenMemory() (*Cache, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	c := &Cache{db: db, dbPath: ":memory:"}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		path TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		rule_tag TEXT NOT NULL,
		diagnostics TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (path, rule_tag)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// HashContent hashes file contents for use as a cache key.
func HashContent(data []byte) uint64 {
	return xxh3.Hash(data)
}

// Fingerprint hashes a rule configuration so entries written under a
// different rule set never match.
func Fingerprint(parts ...string) uint64 {
	return xxh3.HashString(strings.Join(parts, "\x00"))
}

// Get returns the cached diagnostics for a file, if an entry exists for the
// same content hash and rule tag.
func (c *Cache) Get(path string, contentHash, ruleTag uint64) ([]diag.Diagnostic, bool, error) {
	var storedHash, payload string
	err := c.db.QueryRow(
		`SELECT content_hash, diagnostics FROM results WHERE path=? AND rule_tag=?`,
		path, hexKey(ruleTag),
	).Scan(&storedHash, &payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", path, err)
	}
	if storedHash != hexKey(contentHash) {
		return nil, false, nil // stale entry, content changed
	}

	var diags []diag.Diagnostic
	if err := json.Unmarshal([]byte(payload), &diags); err != nil {
		return nil, false, nil // unreadable entry behaves like a miss
	}
	return diags, true, nil
}

// Put stores the diagnostics for a file, replacing any previous entry.
func (c *Cache) Put(path string, contentHash, ruleTag uint64, diags []diag.Diagnostic) error {
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	payload, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", path, err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO results (path, content_hash, rule_tag, diagnostics, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		path, hexKey(contentHash), hexKey(ruleTag), string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cache put %s: %w", path, err)
	}
	return nil
}

// hexKey formats a hash for storage. SQLite integers are signed, so hashes
// are stored as text.
func hexKey(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
