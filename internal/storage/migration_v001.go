package storage

import "database/sql"

// migrateV001 creates the initial recall schema. The timestamp column is the
// sole natural key: a second capture at an already-recorded second is
// discarded by ON CONFLICT DO NOTHING at insert time, never overwritten.
// Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			app       TEXT NOT NULL DEFAULT '',
			title     TEXT NOT NULL DEFAULT '',
			text      TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL UNIQUE,
			embedding BLOB
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_app       ON entries(app)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
