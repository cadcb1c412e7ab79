// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/Joshuakibwage/polling-app/cliparse"
	"github.com/Joshuakibwage/polling-app/handlers"
	"github.com/Joshuakibwage/polling-app/middleware"
)

// Deps are the collaborators the routes need. Nil limiters disable rate limiting.
type Deps struct {
	Store         handlers.PollStore
	Sessions      middleware.SessionVerifier
	CreateLimiter middleware.Limiter
	VoteLimiter   middleware.Limiter
}

func NewRouter(deps Deps, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(deps.Store)
	votingHandler := handlers.NewVotingHandler(deps.Store)

	// route wraps a handler with logging and session resolution.
	route := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithSession(deps.Sessions, h))
	}
	limited := func(limiter middleware.Limiter, h http.HandlerFunc) http.HandlerFunc {
		return route(middleware.WithRateLimit(limiter, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	mux.HandleFunc("POST /polls", limited(deps.CreateLimiter, pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", route(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", route(pollHandler.GetPoll))
	mux.HandleFunc("PUT /polls/{id}", route(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", route(pollHandler.DeletePoll))
	mux.HandleFunc("POST /polls/{id}/close", route(pollHandler.ClosePoll))
	mux.HandleFunc("GET /me/polls", route(pollHandler.ListMyPolls))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", limited(deps.VoteLimiter, votingHandler.Vote))
	mux.HandleFunc("GET /polls/{id}/results", route(votingHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("polling-app API v1"))
	})

	return middleware.CORS(cfg.CORSAllowedOrigins, middleware.WithRequestID(mux))
}
