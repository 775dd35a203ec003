// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/db"
	"github.com/danielhkuo/smart-voting/metrics"
	"github.com/danielhkuo/smart-voting/models"
)

var (
	ErrNotFound            = errors.New("voter not found")
	ErrDuplicateIdentifier = errors.New("voter identifier already exists")
	ErrIneligible          = errors.New("voter is below the minimum voting age")
	ErrUnknownFactor       = errors.New("unknown second factor kind")
	ErrInvalidVoter        = errors.New("voter identifier is required")
)

const voterColumns = `voter_id, name, dob, phone, fingerprint, face_data, has_voted, created_at`

// Registry owns voter records and their verification fields
type Registry struct {
	db      *sql.DB
	checker auth.CredentialChecker
	factors map[string]SecondFactor
	now     func() time.Time
}

type Option func(*Registry)

// WithClock overrides the clock used for ages and timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithSecondFactor replaces the matcher for one factor kind
func WithSecondFactor(kind string, m SecondFactor) Option {
	return func(r *Registry) { r.factors[kind] = m }
}

func New(conn *sql.DB, checker auth.CredentialChecker, opts ...Option) *Registry {
	r := &Registry{
		db:      conn,
		checker: checker,
		factors: map[string]SecondFactor{
			models.FactorFingerprint: EqualityMatcher{},
			models.FactorFace:        EqualityMatcher{},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoter(row rowScanner) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(&v.VoterID, &v.Name, &v.DOB, &v.Phone,
		&v.Fingerprint, &v.FaceData, &v.HasVoted, &v.CreatedAt)
	return v, err
}

// Lookup fetches a voter by identifier
func (r *Registry) Lookup(ctx context.Context, identifier string) (models.Voter, error) {
	identifier = strings.TrimSpace(identifier)
	v, err := scanVoter(r.db.QueryRowContext(ctx, `
		SELECT `+voterColumns+` FROM voter WHERE voter_id = $1
	`, identifier))
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// List returns every voter, oldest first
func (r *Registry) List(ctx context.Context) ([]models.Voter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+voterColumns+` FROM voter ORDER BY created_at, voter_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voters: %w", err)
	}
	return voters, nil
}

// CheckEligibility computes the voter's age today and returns ErrIneligible
// below the minimum voting age. The age is returned in both cases.
func (r *Registry) CheckEligibility(v models.Voter) (int, error) {
	age := Age(v.DOB, r.now().UTC())
	if age < models.MinimumVotingAge {
		return age, ErrIneligible
	}
	return age, nil
}

// VerifyIdentifier is the first step of the voting flow: the identifier must
// exist and its voter must be of voting age.
func (r *Registry) VerifyIdentifier(ctx context.Context, identifier string) (models.Voter, int, error) {
	v, err := r.Lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.ObserveVerification("identifier", metrics.OutcomeNotFound)
		}
		return models.Voter{}, 0, err
	}

	age, err := r.CheckEligibility(v)
	if err != nil {
		metrics.ObserveVerification("identifier", metrics.OutcomeIneligible)
		return v, age, err
	}

	metrics.ObserveVerification("identifier", metrics.OutcomeOK)
	return v, age, nil
}

// VerifySecondFactor checks a payload against the stored template for kind
func (r *Registry) VerifySecondFactor(ctx context.Context, identifier, kind, payload string) (bool, error) {
	matcher, ok := r.factors[kind]
	if !ok {
		return false, ErrUnknownFactor
	}

	v, err := r.Lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.ObserveVerification(kind, metrics.OutcomeNotFound)
		}
		return false, err
	}

	stored, ok := template(v, kind)
	if !ok {
		return false, ErrUnknownFactor
	}

	matched := matcher.Match(stored, payload)
	if matched {
		metrics.ObserveVerification(kind, metrics.OutcomeOK)
	} else {
		metrics.ObserveVerification(kind, metrics.OutcomeMismatch)
	}
	return matched, nil
}

// Create registers a new voter. The primary key decides duplicates, so an
// existing record is never touched.
func (r *Registry) Create(ctx context.Context, fields models.VoterFields) (models.Voter, error) {
	identifier := strings.TrimSpace(fields.VoterID)
	if identifier == "" {
		return models.Voter{}, ErrInvalidVoter
	}

	v := models.Voter{
		VoterID:     identifier,
		Name:        fields.Name,
		DOB:         fields.DOB,
		Phone:       fields.Phone,
		Fingerprint: fields.Fingerprint,
		FaceData:    fields.FaceData,
		CreatedAt:   r.now().UTC().Truncate(time.Microsecond),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO voter (voter_id, name, dob, phone, fingerprint, face_data, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, v.VoterID, v.Name, v.DOB, v.Phone, v.Fingerprint, v.FaceData, false, v.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Voter{}, ErrDuplicateIdentifier
		}
		return models.Voter{}, fmt.Errorf("failed to insert voter: %w", err)
	}

	slog.Info("voter created", "voter_id", v.VoterID)
	return v, nil
}

// Update replaces the editable fields of an existing voter. The identifier
// and has_voted are not editable here.
func (r *Registry) Update(ctx context.Context, identifier string, fields models.VoterFields) (models.Voter, error) {
	identifier = strings.TrimSpace(identifier)
	res, err := r.db.ExecContext(ctx, `
		UPDATE voter
		SET name = $1, dob = $2, phone = $3, fingerprint = $4, face_data = $5
		WHERE voter_id = $6
	`, fields.Name, fields.DOB, fields.Phone, fields.Fingerprint, fields.FaceData, identifier)
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to update voter: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.Voter{}, ErrNotFound
	}

	slog.Info("voter updated", "voter_id", identifier)
	return r.Lookup(ctx, identifier)
}

// Delete removes a voter. Deleting an unknown identifier is not an error.
func (r *Registry) Delete(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	res, err := r.db.ExecContext(ctx, `DELETE FROM voter WHERE voter_id = $1`, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}

	n, _ := res.RowsAffected()
	slog.Info("voter deleted", "voter_id", identifier, "existed", n > 0)
	return nil
}

// SetVotedFlag forces has_voted to value. This is an admin override outside
// the voting protocol and requires the admin secret.
func (r *Registry) SetVotedFlag(ctx context.Context, identifier string, value bool, adminSecret string) error {
	if err := r.checker.CheckSecret(adminSecret); err != nil {
		return err
	}
	identifier = strings.TrimSpace(identifier)

	res, err := r.db.ExecContext(ctx, `
		UPDATE voter SET has_voted = $1 WHERE voter_id = $2
	`, value, identifier)
	if err != nil {
		return fmt.Errorf("failed to update voted flag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.Warn("voted flag overridden", "voter_id", identifier, "has_voted", value)
	return nil
}

// ToggleVotedFlag flips has_voted in a single statement and returns the new
// value. Requires the admin secret.
func (r *Registry) ToggleVotedFlag(ctx context.Context, identifier, adminSecret string) (bool, error) {
	if err := r.checker.CheckSecret(adminSecret); err != nil {
		return false, err
	}
	identifier = strings.TrimSpace(identifier)

	var hasVoted bool
	err := r.db.QueryRowContext(ctx, `
		UPDATE voter SET has_voted = NOT has_voted
		WHERE voter_id = $1
		RETURNING has_voted
	`, identifier).Scan(&hasVoted)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle voted flag: %w", err)
	}

	slog.Warn("voted flag toggled", "voter_id", identifier, "has_voted", hasVoted)
	return hasVoted, nil
}
