// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/smart-voting/auth"
	"github.com/danielhkuo/smart-voting/cliparse"
	"github.com/danielhkuo/smart-voting/handlers"
	"github.com/danielhkuo/smart-voting/ledger"
	"github.com/danielhkuo/smart-voting/middleware"
	"github.com/danielhkuo/smart-voting/notify"
	"github.com/danielhkuo/smart-voting/registry"
)

// Services are the process-wide collaborators built in main
type Services struct {
	Checker  auth.CredentialChecker
	Sessions *auth.Sessions
	Notifier notify.Notifier // nil disables vote confirmations
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *http.ServeMux {
	mux := http.NewServeMux()

	reg := registry.New(db, svc.Checker)
	led := ledger.New(db, svc.Checker, svc.Notifier, ledger.WithNotifyTimeout(cfg.NotifyTimeout))

	votingHandler := handlers.NewVotingHandler(reg, led)
	adminHandler := handlers.NewAdminHandler(reg, led, svc.Checker, svc.Sessions, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(svc.Sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Voting flow (public)
	mux.HandleFunc("POST /api/verify-identifier", middleware.WithLogging(votingHandler.VerifyIdentifier))
	mux.HandleFunc("POST /api/verify-second-factor", middleware.WithLogging(votingHandler.VerifySecondFactor))
	mux.HandleFunc("POST /api/cast-vote", middleware.WithLogging(votingHandler.CastVote))

	// Admin session
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("POST /admin/logout", admin(adminHandler.Logout))

	// Voter records
	mux.HandleFunc("GET /admin/voters", admin(adminHandler.ListVoters))
	mux.HandleFunc("POST /admin/voters", admin(adminHandler.CreateVoter))
	mux.HandleFunc("GET /admin/voters/{id}", admin(adminHandler.GetVoter))
	mux.HandleFunc("PUT /admin/voters/{id}", admin(adminHandler.UpdateVoter))
	mux.HandleFunc("DELETE /admin/voters/{id}", admin(adminHandler.DeleteVoter))
	mux.HandleFunc("POST /admin/voters/{id}/voted-status", admin(adminHandler.SetVotedStatus))

	// Ledger
	mux.HandleFunc("GET /admin/votes", admin(adminHandler.ListVotes))
	mux.HandleFunc("GET /admin/tally", admin(adminHandler.Tally))
	mux.HandleFunc("POST /admin/reset", admin(adminHandler.Reset))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("smart-voting API v1"))
	})

	return mux
}
