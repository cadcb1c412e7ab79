// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the polling API.

# Route Registration

NewRouter builds the handler tree from its dependencies:

	handler := router.NewRouter(router.Deps{
		Store:    store.New(conn, cfg.DatabaseType),
		Sessions: verifier,
	}, cfg)

# Endpoints

Health:

	GET /health

Polls:

	POST   /polls            - Create poll (signed in, rate limited)
	GET    /polls            - List public polls (?limit=&offset=)
	GET    /polls/{id}       - Poll with options
	PUT    /polls/{id}       - Rename poll (owner)
	DELETE /polls/{id}       - Delete poll (owner)
	POST   /polls/{id}/close - Stop accepting votes (owner)
	GET    /me/polls         - Caller's polls (signed in)

Voting:

	POST /polls/{id}/votes   - Cast a vote (signed in, rate limited)
	GET  /polls/{id}/results - Per-option tallies

# Middleware

Each route runs WithLogging and WithSession; create and vote also run
WithRateLimit when a limiter is configured. The whole mux is wrapped in
WithRequestID and CORS.
*/
package router
