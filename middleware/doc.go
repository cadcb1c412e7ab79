// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs and Logging

WithRequestID wraps the whole mux. It reuses an incoming X-Request-Id or
generates one, and stores a logger carrying request_id in the context:

	log := middleware.LoggerFrom(r.Context())

Wrap individual handlers with request logging:

	mux.HandleFunc("GET /polls", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

WithSession verifies a bearer token and stores the user id in the context.
It never rejects; handlers that need a caller return 401 themselves.

# Rate Limiting

WithRateLimit returns 429 once a caller exceeds its quota. Callers are keyed
by user id when signed in and by client IP otherwise. Limiter failures are
logged and the request proceeds.

# CORS Middleware

CORS uses rs/cors with the configured origins:

	handler := middleware.CORS(cfg.CORSAllowedOrigins, mux)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, r, http.StatusTooManyRequests, "message")
	middleware.WriteError(w, r, err)

WriteError maps apperr kinds to statuses (StatusFor) and writes:

	{"error": "validation_failed", "message": "...", "details": [...], "request_id": "..."}

Internal errors are logged with their cause and reported with a generic message.

ReadBody reads at most 1MB of request body.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
