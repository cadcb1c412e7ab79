// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrPollNotFound          = errors.New("poll not found")
	ErrOptionNotFound        = errors.New("option not found")
	ErrNotOwner              = errors.New("poll not owned by caller")
	ErrAlreadyVoted          = errors.New("user has already voted")
	ErrPollClosed            = errors.New("poll is closed")
	ErrCreatedNotRetrievable = errors.New("poll created but not retrievable")
)

// isUniqueViolation reports whether err is a unique or primary key
// constraint failure from either backend.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}

	return false
}
