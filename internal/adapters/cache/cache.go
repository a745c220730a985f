// Package cache keeps downloaded season files in a local SQLite database so
// that finished seasons are fetched only once.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS seasons (
	season     INTEGER PRIMARY KEY,
	body       BLOB    NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// Cache stores raw season CSV bodies keyed by season.
type Cache struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create dir: %w", ErrCacheIO, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrCacheIO, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: set WAL mode: %w", ErrCacheIO, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %w", ErrCacheIO, err)
	}

	return &Cache{db: db, dbPath: path, now: time.Now}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Get returns the cached body of season. ok is false when nothing is cached.
func (c *Cache) Get(ctx context.Context, season int) (body []byte, ok bool, err error) {
	err = c.db.QueryRowContext(ctx, "SELECT body FROM seasons WHERE season = ?", season).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get season %d: %w", ErrCacheIO, season, err)
	}
	return body, true, nil
}

// Put stores body for season, replacing any earlier copy.
func (c *Cache) Put(ctx context.Context, season int, body []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO seasons (season, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(season) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		season, body, c.now().Unix())
	if err != nil {
		return fmt.Errorf("%w: put season %d: %w", ErrCacheIO, season, err)
	}
	return nil
}

// Seasons returns the cached seasons in ascending order.
func (c *Cache) Seasons(ctx context.Context) ([]int, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT season FROM seasons ORDER BY season")
	if err != nil {
		return nil, fmt.Errorf("%w: list seasons: %w", ErrCacheIO, err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: scan season: %w", ErrCacheIO, err)
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list seasons: %w", ErrCacheIO, err)
	}
	return seasons, nil
}

// Clear removes every cached season.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM seasons"); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrCacheIO, err)
	}
	return nil
}
