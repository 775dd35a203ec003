// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/cliparse"
	"github.com/danielhkuo/smart-voting/db"
	"github.com/danielhkuo/smart-voting/models"
)

// Credentials used by GetTestConfig and NewTestChecker
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "test-admin-password"
	TestAdminSecret   = "989464"
	TestSessionSecret = "test-session-secret"
)

// SetupTestDB creates a fresh, isolated in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file::memory:",
		DatabaseType:  db.TypeSQLite,
		AdminUsername: TestAdminUsername,
		AdminPassword: TestAdminPassword,
		AdminSecret:   TestAdminSecret,
		SessionSecret: TestSessionSecret,
		SessionTTL:    time.Hour,
		NotifyTimeout: time.Second,
		NotifySubject: "votes.notifications",
	}
}

var (
	hashOnce sync.Once
	hash     string
	hashErr  error
)

// NewTestChecker returns a credential checker for the test admin account.
// The argon2id hash is computed once per test binary.
func NewTestChecker(t *testing.T) *auth.StaticChecker {
	t.Helper()

	hashOnce.Do(func() {
		hash, hashErr = auth.HashPassword(TestAdminPassword)
	})
	if hashErr != nil {
		t.Fatalf("Failed to hash test password: %v", hashErr)
	}

	checker, err := auth.NewStaticChecker(TestAdminUsername, hash, TestAdminSecret)
	if err != nil {
		t.Fatalf("Failed to create checker: %v", err)
	}
	return checker
}

// NewTestSessions returns a session issuer using the test secret
func NewTestSessions(t *testing.T) *auth.Sessions {
	t.Helper()

	sessions, err := auth.NewSessions(TestSessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create sessions: %v", err)
	}
	return sessions
}

// AdminToken issues a valid admin session token
func AdminToken(t *testing.T) string {
	t.Helper()

	token, _, err := NewTestSessions(t).Issue(TestAdminUsername)
	if err != nil {
		t.Fatalf("Failed to issue admin token: %v", err)
	}
	return token
}

// CreateTestVoter inserts a voter directly. Fingerprint and face templates
// default to the voter ID, as the demo registration flow does.
func CreateTestVoter(t *testing.T, conn *sql.DB, voterID, dob, phone string) models.Voter {
	t.Helper()

	v := models.Voter{
		VoterID:     voterID,
		Name:        "Voter " + voterID,
		DOB:         dob,
		Phone:       phone,
		Fingerprint: voterID,
		FaceData:    voterID,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := conn.Exec(`
		INSERT INTO voter (voter_id, name, dob, phone, fingerprint, face_data, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, v.VoterID, v.Name, v.DOB, v.Phone, v.Fingerprint, v.FaceData, false, v.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return v
}

// CreateTestVote inserts a ledger entry and marks the voter as voted
func CreateTestVote(t *testing.T, conn *sql.DB, voterID, candidate string) string {
	t.Helper()

	voteID := uuid.NewString()
	err := db.RunInTx(context.Background(), conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO vote (id, voter_id, candidate, cast_at)
			VALUES ($1, $2, $3, $4)
		`, voteID, voterID, candidate, time.Now().UTC()); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE voter SET has_voted = $1 WHERE voter_id = $2`, true, voterID)
		return err
	})
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// HasVoted reads the has_voted flag for a voter
func HasVoted(t *testing.T, conn *sql.DB, voterID string) bool {
	t.Helper()

	var hasVoted bool
	if err := conn.QueryRow(`SELECT has_voted FROM voter WHERE voter_id = $1`, voterID).Scan(&hasVoted); err != nil {
		t.Fatalf("Failed to read has_voted: %v", err)
	}
	return hasVoted
}

// CountVotes counts ledger entries, optionally for a single voter
func CountVotes(t *testing.T, conn *sql.DB, voterID string) int {
	t.Helper()

	var count int
	var err error
	if voterID == "" {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&count)
	} else {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = $1`, voterID).Scan(&count)
	}
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
