// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/smart-voting/ledger"
	"github.com/danielhkuo/smart-voting/middleware"
	"github.com/danielhkuo/smart-voting/models"
	"github.com/danielhkuo/smart-voting/registry"
)

// VotingHandler serves the voter-facing identity checks and ballot casting
type VotingHandler struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
}

func NewVotingHandler(reg *registry.Registry, led *ledger.Ledger) *VotingHandler {
	return &VotingHandler{registry: reg, ledger: led}
}

func voterError(w http.ResponseWriter, status int, code string) {
	middleware.JSONResponse(w, status, models.VoterResult{Error: code})
}

// VerifyIdentifier handles POST /api/verify-identifier
func (h *VotingHandler) VerifyIdentifier(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyIdentifierRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		voterError(w, http.StatusBadRequest, models.CodeMissingVoterID)
		return
	}

	voterID := strings.TrimSpace(req.VoterID)
	if voterID == "" {
		voterError(w, http.StatusBadRequest, models.CodeMissingVoterID)
		return
	}

	voter, age, err := h.registry.VerifyIdentifier(r.Context(), voterID)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		middleware.JSONResponse(w, http.StatusNotFound, models.VoterResult{
			Error:  models.CodeNotRegistered,
			Detail: "Contact Admin or NOT Registered",
		})
		return
	case errors.Is(err, registry.ErrIneligible):
		slog.Info("underage voter rejected", "request_id", middleware.RequestID(r.Context()), "voter_id", voterID, "age", age)
		middleware.JSONResponse(w, http.StatusForbidden, models.VoterResult{
			Error: models.CodeUnderage,
			Age:   &age,
		})
		return
	case err != nil:
		slog.Error("failed to verify identifier", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		voterError(w, http.StatusInternalServerError, models.CodeInternal)
		return
	}

	view := voter.View()
	middleware.JSONResponse(w, http.StatusOK, models.VoterResult{
		OK:    true,
		Voter: &view,
		Age:   &age,
	})
}

// VerifySecondFactor handles POST /api/verify-second-factor. A mismatch is
// a normal 200 response with ok=false.
func (h *VotingHandler) VerifySecondFactor(w http.ResponseWriter, r *http.Request) {
	var req models.VerifySecondFactorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		voterError(w, http.StatusBadRequest, models.CodeMissingData)
		return
	}

	voterID := strings.TrimSpace(req.VoterID)
	if voterID == "" || req.Payload == nil {
		voterError(w, http.StatusBadRequest, models.CodeMissingData)
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.FactorFingerprint
	}

	matched, err := h.registry.VerifySecondFactor(r.Context(), voterID, kind, *req.Payload)
	switch {
	case errors.Is(err, registry.ErrUnknownFactor):
		voterError(w, http.StatusBadRequest, models.CodeUnknownFactor)
		return
	case errors.Is(err, registry.ErrNotFound):
		voterError(w, http.StatusNotFound, models.CodeVoterNotFound)
		return
	case err != nil:
		slog.Error("failed to verify second factor", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID, "kind", kind)
		voterError(w, http.StatusInternalServerError, models.CodeInternal)
		return
	}

	if !matched {
		slog.Info("second factor mismatch", "request_id", middleware.RequestID(r.Context()), "voter_id", voterID, "kind", kind)
	}
	middleware.JSONResponse(w, http.StatusOK, models.VoterResult{OK: matched})
}

// CastVote handles POST /api/cast-vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		voterError(w, http.StatusBadRequest, models.CodeMissingData)
		return
	}

	voterID := strings.TrimSpace(req.VoterID)
	candidate := strings.TrimSpace(req.Candidate)
	if voterID == "" || candidate == "" {
		voterError(w, http.StatusBadRequest, models.CodeMissingData)
		return
	}

	receipt, err := h.ledger.CastVote(r.Context(), voterID, candidate)
	switch {
	case errors.Is(err, ledger.ErrVoterNotFound):
		voterError(w, http.StatusNotFound, models.CodeVoterNotFound)
		return
	case errors.Is(err, ledger.ErrAlreadyVoted):
		voterError(w, http.StatusForbidden, models.CodeAlreadyVoted)
		return
	case errors.Is(err, ledger.ErrInvalidVote):
		voterError(w, http.StatusBadRequest, models.CodeMissingData)
		return
	case err != nil:
		slog.Error("failed to cast vote", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		voterError(w, http.StatusInternalServerError, models.CodeInternal)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterResult{
		OK:        true,
		Message:   "vote_recorded",
		Timestamp: &receipt.Timestamp,
	})
}
