// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Smart Voting API.

# Handler Types

  - VotingHandler: identity checks and ballot casting for voters
  - AdminHandler: admin login, voter records, voted-flag overrides, tally, reset

Handlers wrap the registry and ledger:

	reg := registry.New(db, checker)
	led := ledger.New(db, checker, notifier)
	votingHandler := handlers.NewVotingHandler(reg, led)

# Voting Flow

The client drives the steps; the server keeps no state between them:

	POST /api/verify-identifier    → VerifyIdentifier (exists, age >= 18)
	POST /api/verify-second-factor → VerifySecondFactor (fingerprint, then optional face)
	POST /api/cast-vote            → CastVote (once per voter)

Voter responses share one envelope, models.VoterResult, with an ok flag and
an error code such as not_registered, underage or already_voted.

# Admin API

	POST   /admin/login                    → Login (sets svm_admin cookie)
	POST   /admin/logout                   → Logout
	GET    /admin/voters                   → ListVoters
	POST   /admin/voters                   → CreateVoter (409 on duplicate)
	GET    /admin/voters/{id}              → GetVoter
	PUT    /admin/voters/{id}              → UpdateVoter
	DELETE /admin/voters/{id}              → DeleteVoter (204)
	POST   /admin/voters/{id}/voted-status → SetVotedStatus (admin secret)
	GET    /admin/votes                    → ListVotes
	GET    /admin/tally                    → Tally
	POST   /admin/reset                    → Reset (admin secret)

Everything except Login sits behind middleware.RequireAdmin. Voted-status
changes and reset also need the admin secret in the request body.
*/
package handlers
