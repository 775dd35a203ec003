// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/cliparse"
	"github.com/danielhkuo/smart-voting/ledger"
	"github.com/danielhkuo/smart-voting/middleware"
	"github.com/danielhkuo/smart-voting/models"
	"github.com/danielhkuo/smart-voting/registry"
)

// AdminHandler serves the admin panel API: login, voter CRUD, voted-flag
// overrides, tally and reset
type AdminHandler struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
	checker  auth.CredentialChecker
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewAdminHandler(reg *registry.Registry, led *ledger.Ledger, checker auth.CredentialChecker, sessions *auth.Sessions, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{
		registry: reg,
		ledger:   led,
		checker:  checker,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret)

	if err := h.checker.CheckLogin(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("admin login failed", "request_id", middleware.RequestID(r.Context()), "username", req.Username, "ip_hash", ipHash)
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to check admin login", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, expiresAt, err := h.sessions.Issue(req.Username)
	if err != nil {
		slog.Error("failed to issue admin session", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("admin logged in", "request_id", middleware.RequestID(r.Context()), "username", req.Username, "ip_hash", ipHash)

	middleware.JSONResponse(w, http.StatusOK, models.AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Logout handles POST /admin/logout by expiring the session cookie.
// Tokens are stateless and stay valid until they expire.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("admin logged out", "request_id", middleware.RequestID(r.Context()), "username", middleware.AdminUser(r.Context()))
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ListVoters handles GET /admin/voters
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.registry.List(r.Context())
	if err != nil {
		slog.Error("failed to list voters", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// GetVoter handles GET /admin/voters/{id}
func (h *AdminHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	voter, err := h.registry.Lookup(r.Context(), voterID)
	if errors.Is(err, registry.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to get voter", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voter)
}

// CreateVoter handles POST /admin/voters
func (h *AdminHandler) CreateVoter(w http.ResponseWriter, r *http.Request) {
	var req models.VoterFields
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.registry.Create(r.Context(), req)
	switch {
	case errors.Is(err, registry.ErrInvalidVoter):
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	case errors.Is(err, registry.ErrDuplicateIdentifier):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter ID already exists")
		return
	case err != nil:
		slog.Error("failed to create voter", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, voter)
}

// UpdateVoter handles PUT /admin/voters/{id}
func (h *AdminHandler) UpdateVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	var req models.VoterFields
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.registry.Update(r.Context(), voterID, req)
	if errors.Is(err, registry.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to update voter", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// DeleteVoter handles DELETE /admin/voters/{id}. Ledger entries are kept.
func (h *AdminHandler) DeleteVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	if err := h.registry.Delete(r.Context(), voterID); err != nil {
		slog.Error("failed to delete voter", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetVotedStatus handles POST /admin/voters/{id}/voted-status. Without
// has_voted in the body the flag is toggled.
func (h *AdminHandler) SetVotedStatus(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	var req models.VotedStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		hasVoted bool
		err      error
	)
	if req.HasVoted == nil {
		hasVoted, err = h.registry.ToggleVotedFlag(r.Context(), voterID, req.Password)
	} else {
		hasVoted = *req.HasVoted
		err = h.registry.SetVotedFlag(r.Context(), voterID, hasVoted, req.Password)
	}

	switch {
	case errors.Is(err, auth.ErrWrongSecret):
		slog.Warn("voted status change with wrong secret", "request_id", middleware.RequestID(r.Context()), "voter_id", voterID, "username", middleware.AdminUser(r.Context()))
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid password")
		return
	case errors.Is(err, registry.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case err != nil:
		slog.Error("failed to change voted status", "request_id", middleware.RequestID(r.Context()), "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change voted status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotedStatusResponse{
		VoterID:  voterID,
		HasVoted: hasVoted,
	})
}

// Tally handles GET /admin/tally
func (h *AdminHandler) Tally(w http.ResponseWriter, r *http.Request) {
	tally, err := h.ledger.Tally(r.Context())
	if err != nil {
		slog.Error("failed to tally votes", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to tally votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Results: tally.Results,
		Total:   tally.Total,
		Summary: tallySummary(tally),
	})
}

// ListVotes handles GET /admin/votes
func (h *AdminHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.ledger.Votes(r.Context())
	if err != nil {
		slog.Error("failed to list votes", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, votes)
}

func tallySummary(t ledger.Tally) string {
	if t.Total == 0 {
		return "No votes cast yet"
	}
	return fmt.Sprintf("%s %s cast for %s",
		humanize.Comma(int64(t.Total)),
		english.PluralWord(t.Total, "vote", "votes"),
		english.Plural(len(t.Results), "candidate", "candidates"),
	)
}

// Reset handles POST /admin/reset: clears every vote and has_voted flag
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.ledger.ResetAll(r.Context(), req.Password)
	if errors.Is(err, auth.ErrWrongSecret) {
		slog.Warn("reset attempted with wrong secret", "request_id", middleware.RequestID(r.Context()), "username", middleware.AdminUser(r.Context()))
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid password")
		return
	}
	if err != nil {
		slog.Error("failed to reset votes", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{
		Message: "All votes have been reset",
	})
}
