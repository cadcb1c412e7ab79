// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies session tokens from the external auth provider.

# Session Tokens

Callers authenticate with an HS256 JWT in the Authorization header:

	Authorization: Bearer <token>

The sub claim is the user id. It is compared against polls.created_by for
ownership checks and stored as votes.user_id.

	v, err := auth.NewVerifier(auth.Config{Secret: cfg.JWTSecret})
	userID, err := v.VerifySubject(token)

Tokens must carry exp. Issuer and audience are checked when configured.
Clock skew up to Leeway (default 30s) is tolerated.

# Request Context

middleware.WithSession stores the verified id on the request context:

	userID, ok := auth.UserIDFromContext(r.Context())

# Development Tokens

IssueToken signs tokens with the same secret. It backs cmd/devtoken and the
tests; it is not an auth provider.
*/
package auth
