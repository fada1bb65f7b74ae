// ABOUTME: Database schema definitions and migrations
// ABOUTME: Records live as JSON field maps keyed by collection with per-collection Id sequences
package db

import (
	"database/sql"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id INTEGER NOT NULL,
	fields TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection, id DESC);

CREATE TABLE IF NOT EXISTS sequences (
	collection TEXT PRIMARY KEY,
	last_id INTEGER NOT NULL DEFAULT 0
);

`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
