// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
//
// The pattern throughout this package:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" in its init() function.
	_ "modernc.org/sqlite"
)

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite doesn't export a typed error for this, but the message
// is stable ("UNIQUE constraint failed: <table>.<column>").
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// DB wraps a sql.DB connection pool and provides the repository methods.
// It implements repository.UserRepository, HabitRepository and
// RecordRepository (see the compile-time checks in the per-entity files).
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/habits.db" → file-based database (persistent)
//   - ":memory:"       → in-memory database (used by the tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect — Ping forces a real connection so
	// a bad path surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// default SQLite locks the whole file during writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards compatibility.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Wherever you call New(),
// defer Close() — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			total_xp      INTEGER NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS habits (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			frequency   TEXT NOT NULL DEFAULT 'daily',
			color       TEXT NOT NULL DEFAULT '#3b82f6',
			xp_reward   INTEGER NOT NULL DEFAULT 0 CHECK (xp_reward >= 0),
			difficulty  TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_habits_user_id ON habits(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating habits table: %w", err)
	}

	// habit_id is deliberately NOT a foreign key: records must survive the
	// deletion of their habit (the ledger then skips the XP deduction, since
	// the reward amount is gone with the habit).
	//
	// The unique index on (habit_id, date) is the structural guarantee
	// behind "one record per habit per calendar day".
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS habit_records (
			id         TEXT PRIMARY KEY,
			habit_id   TEXT NOT NULL,
			user_id    TEXT NOT NULL REFERENCES users(id),
			date       DATETIME NOT NULL,
			completed  INTEGER NOT NULL DEFAULT 1,
			notes      TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_records_habit_date ON habit_records(habit_id, date);
		CREATE INDEX IF NOT EXISTS idx_records_user_date ON habit_records(user_id, date);
	`)
	if err != nil {
		return fmt.Errorf("creating habit_records table: %w", err)
	}

	return nil
}
