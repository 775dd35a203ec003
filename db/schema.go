// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Shared by PostgreSQL and SQLite: only types and defaults both accept.
var schema = []string{
	// Voters
	`CREATE TABLE IF NOT EXISTS voter (
    voter_id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    dob TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    fingerprint TEXT NOT NULL DEFAULT '',
    face_data TEXT NOT NULL DEFAULT '',
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_voter_has_voted ON voter(has_voted)`,

	// Votes (voter_id is not enforced as a foreign key)
	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL,
    candidate TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_voter_id ON vote(voter_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(candidate)`,
}
