// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and transactions.

# Connecting

Open accepts either database type and pings before returning:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:voting.db")

SQLite uses the pure Go modernc.org/sqlite driver, limited to one open
connection with a busy timeout.

# Schema Creation

CreateSchema initializes both tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: registered voters, second factor templates, has_voted flag
  - vote: the ledger of cast votes

vote.voter_id refers to voter.voter_id but is not a foreign key; deleting a
voter leaves their ledger entry in place.

# Transactions

RunInTx wraps a function in BEGIN/COMMIT with rollback on error:

	err := db.RunInTx(ctx, conn, func(tx *sql.Tx) error {
		...
	})

IsUniqueViolation recognizes duplicate key errors from lib/pq and
modernc.org/sqlite.
*/
package db
