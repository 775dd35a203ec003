// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records cast votes.

CastVote accepts at most one vote per voter. The voter's has_voted flag is
flipped with a conditional UPDATE inside the same transaction as the vote
insert:

	UPDATE voter SET has_voted = TRUE WHERE voter_id = $1 AND has_voted = FALSE

Zero affected rows means the voter is unknown (ErrVoterNotFound) or has
already voted (ErrAlreadyVoted). After commit a confirmation is sent through
the configured notify.Notifier; delivery failures are logged and never fail
the vote.

Tally counts votes per candidate. ResetAll clears the ledger and every
has_voted flag and requires the admin secret.
*/
package ledger
