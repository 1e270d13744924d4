// Package sqlitestore keeps the item list in a SQLite key-value table.
//
// The whole ordered list is one JSON value under a single key, so a save is a
// single-row replace and the order travels with the data.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/podote/internal/model"
)

// DataFileName is the database created inside the data directory.
const DataFileName = "todos.sqlite"

const itemsKey = "todos"

// DB is a Backend over a SQLite database file.
type DB struct {
	path string
	db   *sql.DB
}

// Open creates or opens dir/todos.sqlite and applies the schema.
func Open(ctx context.Context, dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	path := filepath.Join(dir, DataFileName)

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{path: path, db: db}, nil
}

// Path is the location of the database file.
func (d *DB) Path() string { return d.path }

// Close closes the database.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Load(ctx context.Context) ([]model.Item, bool, error) {
	var raw string
	err := d.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, itemsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query items: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, true, nil
}

func (d *DB) Save(ctx context.Context, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, itemsKey, string(b)); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}
