package models

import "time"

// Second factor kinds
const (
	FactorFingerprint = "fingerprint"
	FactorFace        = "face"
)

// MinimumVotingAge is the age (in whole years) a voter must have reached
const MinimumVotingAge = 18

// Error codes returned to the voting client
const (
	CodeMissingVoterID = "missing_voter_id"
	CodeMissingData    = "missing_data"
	CodeNotRegistered  = "not_registered"
	CodeUnderage       = "underage"
	CodeVoterNotFound  = "voter_not_found"
	CodeUnknownFactor  = "unknown_factor"
	CodeAlreadyVoted   = "already_voted"
	CodeInternal       = "internal_error"
)

// Request types

type VerifyIdentifierRequest struct {
	VoterID string `json:"voter_id"`
}

type VerifySecondFactorRequest struct {
	VoterID string  `json:"voter_id"`
	Kind    string  `json:"kind"`
	Payload *string `json:"payload"` // nil means missing; "" is a valid payload
}

type CastVoteRequest struct {
	VoterID   string `json:"voter_id"`
	Candidate string `json:"candidate"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VoterFields struct {
	VoterID     string `json:"voter_id"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Phone       string `json:"phone"`
	Fingerprint string `json:"fingerprint"`
	FaceData    string `json:"face_data"`
}

// has_voted omitted means toggle
type VotedStatusRequest struct {
	Password string `json:"password"`
	HasVoted *bool  `json:"has_voted,omitempty"`
}

type ResetRequest struct {
	Password string `json:"password"`
}

// Response types

// VoterResult is the envelope the voting client reads. OK is always present;
// the remaining fields depend on the outcome.
type VoterResult struct {
	OK        bool       `json:"ok"`
	Error     string     `json:"error,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	Age       *int       `json:"age,omitempty"`
	Voter     *VoterView `json:"voter,omitempty"`
	Message   string     `json:"message,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// VoterView is what the voting client sees after identifier verification.
// Second factor templates are never returned.
type VoterView struct {
	VoterID  string `json:"voter_id"`
	Name     string `json:"name"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	HasVoted bool   `json:"has_voted"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VotedStatusResponse struct {
	VoterID  string `json:"voter_id"`
	HasVoted bool   `json:"has_voted"`
}

type TallyResponse struct {
	Results []CandidateCount `json:"results"`
	Total   int              `json:"total"`
	Summary string           `json:"summary"`
}

type ResetResponse struct {
	Message string `json:"message"`
}

// Domain types

type Voter struct {
	VoterID     string    `json:"voter_id"`
	Name        string    `json:"name"`
	DOB         string    `json:"dob"`
	Phone       string    `json:"phone"`
	Fingerprint string    `json:"fingerprint"`
	FaceData    string    `json:"face_data"`
	HasVoted    bool      `json:"has_voted"`
	CreatedAt   time.Time `json:"created_at"`
}

// View strips the second factor templates
func (v Voter) View() VoterView {
	return VoterView{
		VoterID:  v.VoterID,
		Name:     v.Name,
		DOB:      v.DOB,
		Phone:    v.Phone,
		HasVoted: v.HasVoted,
	}
}

type Vote struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	Candidate string    `json:"candidate"`
	CastAt    time.Time `json:"cast_at"`
}

type CandidateCount struct {
	Candidate string `json:"candidate"`
	Count     int    `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
