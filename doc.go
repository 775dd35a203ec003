// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Smart Voting API server.

Smart Voting is a demo voting machine backend: a voter passes an identifier
check (registered, 18 or older) and a fingerprint check, optionally a face
check, then casts exactly one vote. Admins manage voter records, view the
tally and reset the ledger.

# Starting the Server

Settings come from CLI flags, environment variables or a .env file:

	ADMIN_PASSWORD=... ADMIN_SECRET=... SESSION_SECRET=... go run .

Or with flags:

	go run . -p 5000 -t postgres -d "postgres://..." -admin-password ... -admin-secret ... -session-secret ...

# Configuration

Required settings:

  - ADMIN_PASSWORD or ADMIN_PASSWORD_HASH: admin login password (argon2id)
  - ADMIN_SECRET: secret for voted-flag overrides and ledger reset
  - SESSION_SECRET: HMAC key for admin session tokens

Optional settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string (default: file:smart_voting.db)
  - NATS_URL (-nats): publish vote confirmations to NATS instead of logging them

# Architecture

  - handlers: HTTP request handlers (voting flow, admin API)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin sessions, JSON helpers
  - registry: voter records and identity checks
  - ledger: cast votes, tally, reset
  - notify: vote confirmation delivery
  - auth: admin credentials and session tokens
  - metrics: Prometheus collectors
  - db: connections, schema, transactions
  - cliparse: configuration parsing
  - models: request/response and domain types

See package documentation for each component.
*/
package main
