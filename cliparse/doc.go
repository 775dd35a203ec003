// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and environment variables.

# Usage

Parse configuration from command-line arguments:

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

main loads a .env file (if present) before parsing, so every variable
below can also live there.

# Configuration Priority

Values are resolved in order:

 1. CLI flags (highest priority)
 2. Environment variables
 3. Default values (lowest priority)

# Flags and Environment Variables

	Flag              Env Variable          Default                Description
	-p                PORT                  5000                   Server port
	-d                DATABASE_URL          file:smart_voting.db   Database connection (required for postgres)
	-t                DATABASE_TYPE         sqlite                 Database type (sqlite or postgres)
	-admin-user       ADMIN_USERNAME        admin                  Admin login name
	-admin-password   ADMIN_PASSWORD        (required*)            Admin login password
	                  ADMIN_PASSWORD_HASH   (required*)            argon2id hash, used instead of the password
	-admin-secret     ADMIN_SECRET          (required)             Gates has_voted overrides and reset
	-session-secret   SESSION_SECRET        (required)             Admin session signing key
	-session-ttl      SESSION_TTL           8h                     Admin session lifetime
	-nats             NATS_URL              (empty)                NATS server for vote notifications
	                  NOTIFY_SUBJECT        votes.notifications    NATS subject
	                  NOTIFY_TIMEOUT        3s                     Per-notification timeout

* one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set.

# Security Note

Secrets should be passed via environment variables in production. CLI flags
are visible in process listings.
*/
package cliparse
