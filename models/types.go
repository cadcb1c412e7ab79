// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Domain types

type Poll struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	Category           *string    `json:"category,omitempty"`
	CreatedBy          string     `json:"created_by"`
	IsActive           bool       `json:"is_active"`
	IsPublic           bool       `json:"is_public"`
	AllowMultipleVotes bool       `json:"allow_multiple_votes"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsClosed reports whether the poll no longer accepts votes at the given instant.
func (p Poll) IsClosed(now time.Time) bool {
	if !p.IsActive {
		return true
	}
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

type PollOption struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// PollWithOptions flattens the poll fields and carries its options in insertion order.
type PollWithOptions struct {
	Poll
	Options    []PollOption `json:"options"`
	CreatedAgo string       `json:"created_ago,omitempty"`
}

type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PollResult is a read-only projection computed by the store.
type PollResult struct {
	OptionID  string `json:"option_id"`
	Text      string `json:"text"`
	VoteCount int64  `json:"vote_count"`
}

// Validated inputs

type CreatePollInput struct {
	Title              string
	Description        *string
	Category           *string
	Options            []string
	IsPublic           bool
	AllowMultipleVotes bool
	ExpiresAt          *time.Time
}

// UpdatePollInput carries the validated PUT payload. Options are validated
// but only Title is persisted.
type UpdatePollInput struct {
	Title   string
	Options []string
}

type PollPatch struct {
	Title *string
}

type VoteInput struct {
	PollID   string
	OptionID string
}

type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Response types

type CreatePollResponse struct {
	Success bool             `json:"success"`
	Poll    *PollWithOptions `json:"poll"`
	Message string           `json:"message"`
}

type ListPollsResponse struct {
	Success    bool              `json:"success"`
	Polls      []PollWithOptions `json:"polls"`
	Pagination Pagination        `json:"pagination"`
}

type UserPollsResponse struct {
	Polls []PollWithOptions `json:"polls"`
}

type PollResponse struct {
	Poll *PollWithOptions `json:"poll"`
}

type UpdatePollResponse struct {
	Poll    *Poll  `json:"poll"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type VoteResponse struct {
	Vote    *Vote  `json:"vote"`
	Message string `json:"message"`
}

type ResultsResponse struct {
	PollID     string       `json:"poll_id"`
	Results    []PollResult `json:"results"`
	TotalVotes int64        `json:"total_votes"`
	HasVoted   *bool        `json:"has_voted,omitempty"`
}

// Error response

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     string       `json:"error"`
	Message   string       `json:"message,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}
