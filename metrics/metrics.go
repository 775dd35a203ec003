// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the process-wide Prometheus collectors for the
// voting flow. Collectors are registered once at init with the default
// registry and served by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification outcomes
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeIneligible  = "ineligible"
	OutcomeMismatch    = "mismatch"
	OutcomeAlreadyVote = "already_voted"
)

var (
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svm_verifications_total",
		Help: "Identity verification attempts by step and outcome",
	}, []string{"step", "outcome"})

	votesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svm_votes_cast_total",
		Help: "Total number of votes recorded in the ledger",
	})

	votesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svm_votes_rejected_total",
		Help: "Vote attempts rejected by reason",
	}, []string{"reason"})

	castVoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "svm_cast_vote_duration_seconds",
		Help:    "Duration of the cast vote transaction",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svm_notification_failures_total",
		Help: "Vote confirmations that could not be delivered",
	})

	ledgerResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svm_ledger_resets_total",
		Help: "Number of admin bulk resets",
	})
)

// ObserveVerification records the outcome of an identity check step
// ("identifier", "fingerprint", "face").
func ObserveVerification(step, outcome string) {
	verifications.WithLabelValues(step, outcome).Inc()
}

func IncVotesCast() {
	votesCast.Inc()
}

func IncVoteRejected(reason string) {
	votesRejected.WithLabelValues(reason).Inc()
}

// ObserveCastVote records the duration of a cast vote transaction.
// Call with time.Now() at the start of the operation.
func ObserveCastVote(start time.Time) {
	castVoteDuration.Observe(time.Since(start).Seconds())
}

func IncNotificationFailure() {
	notificationFailures.Inc()
}

func IncLedgerReset() {
	ledgerResets.Inc()
}
