// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Joshuakibwage/polling-app/auth"
	"github.com/Joshuakibwage/polling-app/middleware"
	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/validation"
)

type VotingHandler struct {
	store PollStore
}

func NewVotingHandler(store PollStore) *VotingHandler {
	return &VotingHandler{store: store}
}

// Vote handles POST /polls/{id}/votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	body, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	input, err := validation.ParseVote(r.PathValue("id"), body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	vote, err := h.store.Vote(r.Context(), input, userID)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.LoggerFrom(r.Context()).Info("vote recorded",
		"poll_id", vote.PollID,
		"option_id", vote.OptionID,
		"user_id", userID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Vote:    vote,
		Message: "Vote submitted successfully",
	})
}

// GetResults handles GET /polls/{id}/results
// has_voted is included only for signed-in callers.
func (h *VotingHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	if _, err := h.store.GetPoll(r.Context(), pollID); err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	userID, signedIn := auth.UserIDFromContext(r.Context())

	var (
		results []models.PollResult
		voted   bool
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		results, err = h.store.GetPollResults(ctx, pollID)
		return err
	})
	if signedIn {
		g.Go(func() error {
			var err error
			voted, err = h.store.HasUserVoted(ctx, pollID, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	var total int64
	for _, res := range results {
		total += res.VoteCount
	}

	resp := models.ResultsResponse{
		PollID:     pollID,
		Results:    results,
		TotalVotes: total,
	}
	if signedIn {
		resp.HasVoted = &voted
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
