// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nats-io/nats.go"
)

var ErrNoRecipient = errors.New("no phone number to notify")

// Notifier delivers a vote confirmation to a voter's phone
type Notifier interface {
	Notify(ctx context.Context, phone, message string) error
}

// VoteNotification is the payload published for SMS gateways
type VoteNotification struct {
	Phone   string    `json:"phone"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Message builds the confirmation text sent after a vote is recorded
func Message(candidate string, castAt time.Time) string {
	return fmt.Sprintf("Your vote has been successfully cast for %s on %s.",
		candidate, castAt.UTC().Format("Jan 2, 2006 15:04 MST"))
}

// LogNotifier simulates SMS delivery by logging the message
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, phone, message string) error {
	if phone == "" {
		return ErrNoRecipient
	}
	slog.InfoContext(ctx, "simulated SMS", "to", phone, "message", message)
	return nil
}

// NATSNotifier publishes VoteNotification messages for an SMS gateway
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	now     func() time.Time
}

func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		return nil, errors.New("notification subject is required")
	}
	conn, err := nats.Connect(url, nats.Name("smart-voting"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSNotifier{conn: conn, subject: subject, now: time.Now}, nil
}

func (n *NATSNotifier) Notify(ctx context.Context, phone, message string) error {
	if phone == "" {
		return ErrNoRecipient
	}

	payload, err := json.Marshal(VoteNotification{
		Phone:   phone,
		Message: message,
		SentAt:  n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	// Round-trip to the server so delivery errors reach the caller
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush notification: %w", err)
	}

	slog.DebugContext(ctx, "notification published", "subject", n.subject, "bytes", humanize.Bytes(uint64(len(payload))))
	return nil
}

func (n *NATSNotifier) Close() error {
	return n.conn.Drain()
}
