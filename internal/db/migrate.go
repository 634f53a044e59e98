package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS board_snapshots (
		version    INTEGER PRIMARY KEY AUTOINCREMENT,
		body       BLOB NOT NULL,
		checksum   TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`ALTER TABLE board_snapshots ADD COLUMN reason TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE board_snapshots ADD COLUMN byte_size INTEGER NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS idx_board_snapshots_created_at ON board_snapshots(created_at)`,
}

// Migrate applies every statement in order. It is safe to run repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS; a re-run hits existing columns.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
