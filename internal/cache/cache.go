// Package cache persists generated artifacts keyed by a hash of the source
// and the build options, so unchanged files skip the whole pipeline on
// rebuilds.
package cache

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	key        TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	ruby       TEXT NOT NULL,
	rbs        TEXT NOT NULL,
	decls      TEXT NOT NULL,
	warnings   TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);`

// Entry is one cached build result. Warnings holds the rendered warning
// lines the build produced, so a cache hit replays them.
type Entry struct {
	RunID     string
	Ruby      string
	RBS       string
	Decls     string
	Warnings  string
	CreatedAt time.Time
}

// Cache is a sqlite-backed artifact store.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Key derives the cache key for a source file under the given option
// fingerprint. Options participate in the key so a strict build never reuses
// a lenient build's artifacts.
func Key(source string, options ...string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(source))
	for _, opt := range options {
		h.Write([]byte{0})
		h.Write([]byte(opt))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks an entry up. The second return reports a hit.
func (c *Cache) Get(key string) (*Entry, bool, error) {
	row := c.db.QueryRow(
		`SELECT run_id, ruby, rbs, decls, warnings, created_at FROM artifacts WHERE key = ?`, key)
	var e Entry
	var createdAt int64
	if err := row.Scan(&e.RunID, &e.Ruby, &e.RBS, &e.Decls, &e.Warnings, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	return &e, true, nil
}

// Put stores or replaces an entry.
func (c *Cache) Put(key string, e *Entry) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO artifacts (key, run_id, ruby, rbs, decls, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, e.RunID, e.Ruby, e.RBS, e.Decls, e.Warnings, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge drops every cached artifact.
func (c *Cache) Purge() error {
	_, err := c.db.Exec(`DELETE FROM artifacts`)
	return err
}
