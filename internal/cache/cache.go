// Package cache stores extracted palettes in SQLite, keyed by image digest
// and extraction options.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/carbocation/mediancut/internal/config"
	"github.com/carbocation/mediancut/quantize"
)

// ErrMiss is returned by Get when no palette is stored under the key
var ErrMiss = errors.New("cache: miss")

const schema = `CREATE TABLE IF NOT EXISTS palettes (
	key TEXT PRIMARY KEY,
	colors TEXT NOT NULL,
	populations TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// Entry is a cached extraction result
type Entry struct {
	Palette     []quantize.Color
	Populations []int
	CreatedAt   time.Time
}

// Cache is a palette store backed by a SQLite database
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create palettes table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key identifies an extraction of the image with the given digest. Options
// that only affect presentation are left out.
func Key(digest string, opts config.Options) string {
	return fmt.Sprintf("%s:n=%d:unique=%t:agg=%s:maxdim=%d",
		digest, opts.Colors, opts.Unique, opts.AggregationType(), opts.MaxDimension)
}

// Get returns the entry stored under key, or ErrMiss
func (c *Cache) Get(ctx context.Context, key string) (Entry, error) {
	var colors, populations string
	var created int64
	err := c.db.QueryRowContext(ctx,
		`SELECT colors, populations, created_at FROM palettes WHERE key = ?`, key,
	).Scan(&colors, &populations, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("query palette: %w", err)
	}

	entry := Entry{CreatedAt: time.Unix(created, 0)}
	if err := json.Unmarshal([]byte(colors), &entry.Palette); err != nil {
		return Entry{}, fmt.Errorf("decode cached colors: %w", err)
	}
	if err := json.Unmarshal([]byte(populations), &entry.Populations); err != nil {
		return Entry{}, fmt.Errorf("decode cached populations: %w", err)
	}
	return entry, nil
}

// Put stores entry under key, replacing any previous value
func (c *Cache) Put(ctx context.Context, key string, entry Entry) error {
	colors, err := json.Marshal(entry.Palette)
	if err != nil {
		return fmt.Errorf("encode colors: %w", err)
	}
	populations, err := json.Marshal(entry.Populations)
	if err != nil {
		return fmt.Errorf("encode populations: %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO palettes (key, colors, populations, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET colors = excluded.colors, populations = excluded.populations, created_at = excluded.created_at`,
		key, string(colors), string(populations), entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("store palette: %w", err)
	}
	return nil
}
