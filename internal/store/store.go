package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// schema is applied on open. Profiles are stored as JSON blobs so a
// profile field added later never needs a column migration.
const schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	slug             TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	file_patterns    TEXT NOT NULL DEFAULT '[]',
	min_order_amount REAL NOT NULL DEFAULT 0,
	active           INTEGER NOT NULL DEFAULT 1,
	display_config   TEXT,
	print_config     TEXT,
	import_config    TEXT,
	web_config       TEXT,
	created_at       TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS order_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	supplier   TEXT NOT NULL,
	action     TEXT NOT NULL,
	file       TEXT,
	actor      TEXT,
	details    TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_order_history_supplier
	ON order_history(supplier, created_at);
`

// Store wraps the sqlite database holding supplier records and the
// order action audit trail.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path. SQLite tolerates
// exactly one writer, so the pool is capped at a single connection.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("database opened",
		slog.String("path", path),
		slog.String("journal_mode", "wal"))

	return &Store{db: db, logger: logger.With(slog.String("component", "store"))}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is still usable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
