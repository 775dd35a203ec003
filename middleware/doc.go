// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start and completion (status, duration_ms) with a request ID.
An incoming X-Request-ID header is reused, otherwise a UUID is generated.
The ID is echoed in the response and available via RequestID(ctx).

# Admin Sessions

RequireAdmin guards admin routes:

	mux.HandleFunc("GET /admin/voters",
		middleware.WithLogging(middleware.RequireAdmin(sessions, h.ListVoters)))

The session token is read from the svm_admin cookie, then from an
Authorization: Bearer header. AdminUser(ctx) returns the logged-in username.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		...
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, X-Real-IP, then RemoteAddr. Used to log hashed
client IPs on admin login attempts.
*/
package middleware
