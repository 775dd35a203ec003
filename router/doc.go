// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Smart Voting API.

# Route Registration

NewRouter builds the registry and ledger and returns a configured
http.ServeMux:

	mux := router.NewRouter(db, cfg, router.Services{
		Checker:  checker,
		Sessions: sessions,
		Notifier: notifier,
	})

# Endpoints

Operational:

	GET /health
	GET /metrics - Prometheus collectors

Voting (public):

	POST /api/verify-identifier
	POST /api/verify-second-factor
	POST /api/cast-vote

Admin (session required except for login):

	POST   /admin/login
	POST   /admin/logout
	GET    /admin/voters
	POST   /admin/voters
	GET    /admin/voters/{id}
	PUT    /admin/voters/{id}
	DELETE /admin/voters/{id}
	POST   /admin/voters/{id}/voted-status
	GET    /admin/votes
	GET    /admin/tally
	POST   /admin/reset
*/
package router
