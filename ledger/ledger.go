// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/db"
	"github.com/danielhkuo/smart-voting/metrics"
	"github.com/danielhkuo/smart-voting/models"
	"github.com/danielhkuo/smart-voting/notify"
)

var (
	ErrVoterNotFound = errors.New("voter not found")
	ErrAlreadyVoted  = errors.New("voter has already voted")
	ErrInvalidVote   = errors.New("voter identifier and candidate are required")
)

const defaultNotifyTimeout = 3 * time.Second

// Receipt confirms a recorded vote
type Receipt struct {
	VoteID    string
	Candidate string
	Timestamp time.Time
}

// Tally is the vote count per candidate, highest first
type Tally struct {
	Results []models.CandidateCount
	Total   int
}

// Ledger records cast votes and owns the has_voted transition
type Ledger struct {
	db            *sql.DB
	checker       auth.CredentialChecker
	notifier      notify.Notifier
	notifyTimeout time.Duration
	now           func() time.Time
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.notifyTimeout = d
		}
	}
}

// New creates a ledger. A nil notifier disables confirmations.
func New(conn *sql.DB, checker auth.CredentialChecker, notifier notify.Notifier, opts ...Option) *Ledger {
	l := &Ledger{
		db:            conn,
		checker:       checker,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CastVote records a vote for identifier. The has_voted flag is flipped with
// a conditional UPDATE in the same transaction as the ledger insert, so of
// any number of concurrent calls for one voter exactly one succeeds.
func (l *Ledger) CastVote(ctx context.Context, identifier, candidate string) (Receipt, error) {
	start := time.Now()
	defer metrics.ObserveCastVote(start)

	identifier = strings.TrimSpace(identifier)
	candidate = strings.TrimSpace(candidate)
	if identifier == "" || candidate == "" {
		return Receipt{}, ErrInvalidVote
	}

	receipt := Receipt{
		VoteID:    uuid.NewString(),
		Candidate: candidate,
		Timestamp: l.now().UTC().Truncate(time.Microsecond),
	}

	var phone string
	err := db.RunInTx(ctx, l.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE voter SET has_voted = $1
			WHERE voter_id = $2 AND has_voted = $3
		`, true, identifier, false)
		if err != nil {
			return fmt.Errorf("failed to mark voter: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			var exists bool
			err := tx.QueryRowContext(ctx, `
				SELECT EXISTS(SELECT 1 FROM voter WHERE voter_id = $1)
			`, identifier).Scan(&exists)
			if err != nil {
				return fmt.Errorf("failed to query voter: %w", err)
			}
			if !exists {
				return ErrVoterNotFound
			}
			return ErrAlreadyVoted
		}

		if err := tx.QueryRowContext(ctx, `
			SELECT phone FROM voter WHERE voter_id = $1
		`, identifier).Scan(&phone); err != nil {
			return fmt.Errorf("failed to query voter phone: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (id, voter_id, candidate, cast_at)
			VALUES ($1, $2, $3, $4)
		`, receipt.VoteID, identifier, candidate, receipt.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrVoterNotFound):
		metrics.IncVoteRejected(metrics.OutcomeNotFound)
		return Receipt{}, err
	case errors.Is(err, ErrAlreadyVoted):
		metrics.IncVoteRejected(metrics.OutcomeAlreadyVote)
		slog.Info("vote rejected", "voter_id", identifier, "reason", "already_voted")
		return Receipt{}, err
	case err != nil:
		return Receipt{}, err
	}

	metrics.IncVotesCast()
	slog.Info("vote recorded", "voter_id", identifier, "vote_id", receipt.VoteID)

	l.confirm(ctx, identifier, phone, receipt)
	return receipt, nil
}

// confirm sends the vote confirmation. Failures are logged only; the vote is
// already committed.
func (l *Ledger) confirm(ctx context.Context, identifier, phone string, receipt Receipt) {
	if l.notifier == nil {
		return
	}
	if phone == "" {
		slog.Warn("voter has no registered phone number, SMS will not be sent", "voter_id", identifier)
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.notifyTimeout)
	defer cancel()

	msg := notify.Message(receipt.Candidate, receipt.Timestamp)
	if err := l.notifier.Notify(notifyCtx, phone, msg); err != nil {
		metrics.IncNotificationFailure()
		slog.Warn("failed to send vote confirmation", "voter_id", identifier, "error", err)
	}
}

// Tally counts votes per candidate ordered by count descending, then by
// candidate name.
func (l *Ledger) Tally(ctx context.Context) (Tally, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT candidate, COUNT(*) AS votes
		FROM vote
		GROUP BY candidate
		ORDER BY votes DESC, candidate ASC
	`)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	tally := Tally{Results: []models.CandidateCount{}}
	for rows.Next() {
		var c models.CandidateCount
		if err := rows.Scan(&c.Candidate, &c.Count); err != nil {
			return Tally{}, fmt.Errorf("failed to scan tally row: %w", err)
		}
		tally.Results = append(tally.Results, c)
		tally.Total += c.Count
	}
	if err := rows.Err(); err != nil {
		return Tally{}, fmt.Errorf("failed to iterate tally: %w", err)
	}

	return tally, nil
}

// Votes returns every ledger entry in the order they were cast
func (l *Ledger) Votes(ctx context.Context) ([]models.Vote, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, voter_id, candidate, cast_at
		FROM vote
		ORDER BY cast_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.Candidate, &v.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}

// ResetAll clears the ledger and every has_voted flag in one transaction.
// Requires the admin secret; with a wrong secret nothing changes.
func (l *Ledger) ResetAll(ctx context.Context, adminSecret string) error {
	if err := l.checker.CheckSecret(adminSecret); err != nil {
		return err
	}

	var cleared int64
	err := db.RunInTx(ctx, l.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM vote`)
		if err != nil {
			return fmt.Errorf("failed to clear votes: %w", err)
		}
		cleared, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, `UPDATE voter SET has_voted = $1`, false); err != nil {
			return fmt.Errorf("failed to clear voted flags: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncLedgerReset()
	slog.Warn("ledger reset", "votes_cleared", cleared)
	return nil
}
