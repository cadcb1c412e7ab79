// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, input, and response types for the API.

# Domain Types

  - Poll: title, owner (created_by), flags, optional expiry
  - PollOption: one choice, ordered by position within its poll
  - PollWithOptions: a poll flattened together with its options
  - Vote: one user selecting one option on one poll
  - PollResult: per-option tally computed by the store

# Validated Inputs

Produced by the validation package and consumed by the store:

  - CreatePollInput: trimmed title and options, defaults applied
  - UpdatePollInput: trimmed title and options (only the title is persisted)
  - PollPatch: the mutable subset of a poll
  - VoteInput: poll_id and option_id

# Response Types

  - CreatePollResponse: success, poll, message
  - ListPollsResponse: success, polls, pagination (limit, offset, hasMore)
  - PollResponse, UpdatePollResponse, MessageResponse
  - VoteResponse, ResultsResponse
  - ErrorResponse: error code, message, per-field details, request_id
*/
package models
