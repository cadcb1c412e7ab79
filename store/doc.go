// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data-access layer for polls, options, and votes.

Store works against PostgreSQL or SQLite through database/sql. Queries use
$n placeholders, which both drivers accept. Poll results and the has-voted
check call stored functions on PostgreSQL and a view or inline query on
SQLite.

Failures callers are expected to handle are reported as sentinel errors:

	_, err := s.Vote(ctx, in, userID)
	switch {
	case errors.Is(err, store.ErrAlreadyVoted):
	case errors.Is(err, store.ErrPollClosed):
	}

Creating and deleting a poll run in a transaction so a poll never exists
without its options.
*/
package store
