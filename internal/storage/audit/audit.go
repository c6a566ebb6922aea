// Package audit implements an append-only SQLite journal of GameHandle
// mutations, mirroring the teacher's storage/db connection-plus-migration
// pattern at a much smaller scale: one table, no schema versioning needed
// yet.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Journal wraps the SQLite connection backing the audit log.
type Journal struct {
	db *sql.DB
}

// Open creates (or reuses) the SQLite database at path and ensures the
// audit_log table exists.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			valid INTEGER NOT NULL,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating audit_log table: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record inserts one audit entry. It implements handle.AuditSink.
func (j *Journal) Record(operation, plugin string, valid bool) error {
	_, err := j.db.Exec(
		`INSERT INTO audit_log (id, operation, plugin_name, valid) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), operation, plugin, valid,
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// Entry is one row of the audit log, as returned by Recent.
type Entry struct {
	ID         string
	Operation  string
	PluginName string
	Valid      bool
	RecordedAt time.Time
}

// Recent returns the most recent n audit entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, operation, plugin_name, valid, recorded_at
		 FROM audit_log ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Operation, &e.PluginName, &e.Valid, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	return entries, nil
}
