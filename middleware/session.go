// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"

	"github.com/rs/cors"

	"github.com/Joshuakibwage/polling-app/auth"
)

// SessionVerifier resolves a bearer token to a user id.
type SessionVerifier interface {
	VerifySubject(token string) (string, error)
}

// Limiter decides whether a key is within its request quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// WithSession attaches the caller's user id to the request context when a
// valid bearer token is present. It never rejects a request; handlers decide
// whether a session is required.
func WithSession(verifier SessionVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok || verifier == nil {
			next(w, r)
			return
		}

		userID, err := verifier.VerifySubject(token)
		if err != nil {
			LoggerFrom(r.Context()).Debug("session rejected", "error", err)
			next(w, r)
			return
		}

		next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	}
}

// WithRateLimit rejects requests over quota with 429. Authenticated callers
// are limited per user and anonymous ones per client IP. A nil limiter
// disables the check; limiter errors are logged and the request proceeds.
func WithRateLimit(limiter Limiter, next http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + GetClientIP(r)
		if userID, ok := auth.UserIDFromContext(r.Context()); ok {
			key = "user:" + userID
		}

		allowed, err := limiter.Allow(r.Context(), key)
		if err != nil {
			LoggerFrom(r.Context()).Warn("rate limiter unavailable", "error", err)
			next(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Retry-After", "60")
			ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests, please slow down")
			return
		}

		next(w, r)
	}
}

// CORS allows cross-origin requests from the configured frontend origins.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
	return c.Handler(next)
}
