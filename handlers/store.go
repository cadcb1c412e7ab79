// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Joshuakibwage/polling-app/apperr"
	"github.com/Joshuakibwage/polling-app/auth"
	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/store"
)

// PollStore is the data-access surface the handlers depend on.
// *store.Store implements it.
type PollStore interface {
	CreatePoll(ctx context.Context, in models.CreatePollInput, ownerID string) (*models.PollWithOptions, error)
	GetPoll(ctx context.Context, id string) (*models.PollWithOptions, error)
	GetPolls(ctx context.Context, limit, offset int) ([]models.PollWithOptions, error)
	GetUserPolls(ctx context.Context, ownerID string) ([]models.PollWithOptions, error)
	UpdatePoll(ctx context.Context, id string, patch models.PollPatch, ownerID string) (*models.Poll, error)
	ClosePoll(ctx context.Context, id, ownerID string) (*models.Poll, error)
	DeletePoll(ctx context.Context, id, ownerID string) error
	Vote(ctx context.Context, in models.VoteInput, userID string) (*models.Vote, error)
	GetPollResults(ctx context.Context, pollID string) ([]models.PollResult, error)
	HasUserVoted(ctx context.Context, pollID, userID string) (bool, error)
}

var _ PollStore = (*store.Store)(nil)

// storeError converts data-access errors into API errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrCreatedNotRetrievable):
		return apperr.Internal("Poll was created but could not be loaded", err)
	case errors.Is(err, store.ErrPollNotFound):
		return wrap(apperr.NotFound("Poll not found"), err)
	case errors.Is(err, store.ErrOptionNotFound):
		return wrap(apperr.NotFound("Option not found for this poll"), err)
	case errors.Is(err, store.ErrNotOwner):
		return wrap(apperr.Unauthorized("You can only modify your own polls"), err)
	case errors.Is(err, store.ErrAlreadyVoted):
		return apperr.Conflict("You have already voted on this poll", err)
	case errors.Is(err, store.ErrPollClosed):
		return apperr.Conflict("This poll is closed", err)
	default:
		return apperr.Internal("Internal server error", err)
	}
}

func wrap(e *apperr.Error, cause error) *apperr.Error {
	e.Err = cause
	return e
}

// requireUser returns the authenticated caller or an Unauthenticated error.
func requireUser(r *http.Request) (string, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", apperr.Unauthenticated("You must be logged in")
	}
	return userID, nil
}
