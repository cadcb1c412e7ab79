// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polling API server.

Signed-in users create polls with two to ten options, anyone can browse
public polls, and signed-in users vote once per poll (or once per option when
the poll allows multiple votes).

# Starting the Server

	DATABASE_URL=polls.db JWT_SECRET=dev go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret dev

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HS256 secret shared with the auth provider

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL, LOG_FORMAT: slog level and auto, json, text, or pretty
  - REDIS_ADDR: enables per-minute limits on poll creation and voting
  - CORS_ALLOWED_ORIGINS: comma separated list (default: *)

A YAML file may be passed with -c; a .env file is loaded when present.

# Architecture

  - handlers: HTTP request handlers (polls, voting)
  - router: Route definitions using Go 1.22+ routing
  - middleware: sessions, rate limits, request ids, CORS, JSON helpers
  - validation: payload decoding and field rules
  - store: SQL data access
  - db: connections and embedded migrations
  - auth: session token verification
  - ratelimit: Redis fixed-window limiter
  - logging: slog setup
  - cliparse: configuration parsing

cmd/migrate runs migrations by hand and cmd/devtoken signs local tokens.
*/
package main
