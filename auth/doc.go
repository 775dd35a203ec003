// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin credential checks, admin sessions and ID helpers.

# Credentials

CredentialChecker is the pluggable gate for the admin surface:

	type CredentialChecker interface {
		CheckLogin(username, password string) error
		CheckSecret(secret string) error
	}

StaticChecker implements it with one configured account. The password is
stored as an argon2id hash; the admin secret (which gates has_voted
overrides and the bulk reset) is compared with hmac.Equal.

	hash, _ := auth.HashPassword(cfg.AdminPassword)
	checker, err := auth.NewStaticChecker(cfg.AdminUsername, hash, cfg.AdminSecret)

# Sessions

Sessions issues HS256 JWTs after a successful login:

	sessions, _ := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	token, expiresAt, err := sessions.Issue("admin")
	claims, err := sessions.Parse(token)

Tokens carry a random ID, the issuer "smart-voting" and an expiry. Only
HS256 is accepted.

# Helpers

  - GenerateID: random hex IDs
  - HashIP: keyed one-way hash of client IPs for logging

# Errors

	ErrInvalidCredentials - login rejected
	ErrWrongSecret        - admin secret mismatch
	ErrInvalidSession     - missing, expired or forged session token
*/
package auth
