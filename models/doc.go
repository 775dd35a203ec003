// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VerifyIdentifierRequest: voter_id
  - VerifySecondFactorRequest: voter_id, kind, payload
  - CastVoteRequest: voter_id, candidate
  - AdminLoginRequest: username, password
  - VoterFields: voter record fields for admin create/update
  - VotedStatusRequest: password, optional has_voted
  - ResetRequest: password

# Response Types

The voting client reads a single envelope, VoterResult, whose ok field is
always present:

	{"ok": false, "error": "underage", "age": 14}
	{"ok": true, "message": "vote_recorded", "timestamp": "..."}

Admin endpoints use AdminLoginResponse, VotedStatusResponse, TallyResponse,
ResetResponse and ErrorResponse.

# Domain Types

  - Voter: a registered voter including second factor templates
  - VoterView: voter without templates
  - Vote: a ledger entry
  - CandidateCount: one tally row

# Constants

Second factor kinds:

	FactorFingerprint = "fingerprint"
	FactorFace        = "face"

Eligibility:

	MinimumVotingAge = 18
*/
package models
