// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// CredentialChecker gates the admin surface. CheckLogin guards session
// creation, CheckSecret guards status overrides and the bulk reset.
type CredentialChecker interface {
	CheckLogin(username, password string) error
	CheckSecret(secret string) error
}

// StaticChecker checks against a single configured admin account and a
// shared admin secret.
type StaticChecker struct {
	username     string
	passwordHash string
	secret       string
}

// NewStaticChecker builds a checker from configuration. passwordHash must be
// an argon2id hash; use HashPassword to derive one from a plaintext password.
func NewStaticChecker(username, passwordHash, secret string) (*StaticChecker, error) {
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	if secret == "" {
		return nil, errors.New("admin secret is required")
	}
	if _, _, _, err := argon2id.DecodeHash(passwordHash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &StaticChecker{
		username:     username,
		passwordHash: passwordHash,
		secret:       secret,
	}, nil
}

// HashPassword derives an argon2id hash with the library defaults
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (c *StaticChecker) CheckLogin(username, password string) error {
	// Always run the hash comparison so unknown usernames cost the same
	match, err := argon2id.ComparePasswordAndHash(password, c.passwordHash)
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	if !match || !hmac.Equal([]byte(username), []byte(c.username)) {
		return ErrInvalidCredentials
	}
	return nil
}

func (c *StaticChecker) CheckSecret(secret string) error {
	if !hmac.Equal([]byte(secret), []byte(c.secret)) {
		return ErrWrongSecret
	}
	return nil
}
