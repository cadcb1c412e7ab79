// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polling API.

# Handler Types

Each handler is a struct over a PollStore:

  - PollHandler: create, list, read, update, close, and delete polls
  - VotingHandler: cast votes and read results

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(store)

*store.Store satisfies PollStore; tests substitute a mock.

# Request Order

Every mutating handler checks, in order:

 1. a signed-in caller (401)
 2. the request body (400)
 3. for update, close, and delete: the poll exists (404) and belongs to the caller (403)

Only then is the store called. Store errors are translated to API errors by
storeError and rendered by middleware.WriteError.

# Identity

Handlers never parse tokens. middleware.WithSession places the caller's user
id in the request context and handlers read it with auth.UserIDFromContext.
*/
package handlers
