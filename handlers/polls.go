// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joshuakibwage/polling-app/apperr"
	"github.com/Joshuakibwage/polling-app/middleware"
	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/validation"
)

type PollHandler struct {
	store PollStore
	now   func() time.Time
}

func NewPollHandler(store PollStore) *PollHandler {
	return &PollHandler{store: store, now: time.Now}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
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

	input, err := validation.ParseCreatePoll(body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), input, userID)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.LoggerFrom(r.Context()).Info("poll created",
		"poll_id", poll.ID,
		"user_id", userID,
		"options", len(poll.Options),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		Success: true,
		Poll:    poll,
		Message: "Poll created successfully!",
	})
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	// Fetch one extra row to know whether another page exists.
	polls, err := h.store.GetPolls(r.Context(), limit+1, offset)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	hasMore := len(polls) > limit
	if hasMore {
		polls = polls[:limit]
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{
		Success: true,
		Polls:   h.withCreatedAgo(polls),
		Pagination: models.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
	})
}

// ListMyPolls handles GET /me/polls
func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	polls, err := h.store.GetUserPolls(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserPollsResponse{
		Polls: h.withCreatedAgo(polls),
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.store.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	poll.CreatedAgo = h.createdAgo(poll.CreatedAt)
	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{Poll: poll})
}

// UpdatePoll handles PUT /polls/{id}
// Only the title is persisted; options in the body are validated and ignored.
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
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

	input, err := validation.ParseUpdatePoll(body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	pollID := r.PathValue("id")
	if err := h.authorizeOwner(r, pollID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.UpdatePoll(r.Context(), pollID, models.PollPatch{Title: &input.Title}, userID)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.LoggerFrom(r.Context()).Info("poll updated", "poll_id", pollID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.UpdatePollResponse{
		Poll:    poll,
		Message: "Poll updated successfully",
	})
}

// ClosePoll handles POST /polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	pollID := r.PathValue("id")
	if err := h.authorizeOwner(r, pollID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.ClosePoll(r.Context(), pollID, userID)
	if err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.LoggerFrom(r.Context()).Info("poll closed", "poll_id", pollID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.UpdatePollResponse{
		Poll:    poll,
		Message: "Poll closed successfully",
	})
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	pollID := r.PathValue("id")
	if err := h.authorizeOwner(r, pollID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := h.store.DeletePoll(r.Context(), pollID, userID); err != nil {
		middleware.WriteError(w, r, storeError(err))
		return
	}

	middleware.LoggerFrom(r.Context()).Info("poll deleted", "poll_id", pollID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll deleted successfully",
	})
}

// authorizeOwner loads the poll so a missing poll (404) is reported before
// an ownership mismatch (403).
func (h *PollHandler) authorizeOwner(r *http.Request, pollID, userID string) error {
	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		return storeError(err)
	}
	if poll.CreatedBy != userID {
		return apperr.Unauthorized("You can only modify your own polls")
	}
	return nil
}

func (h *PollHandler) withCreatedAgo(polls []models.PollWithOptions) []models.PollWithOptions {
	for i := range polls {
		polls[i].CreatedAgo = h.createdAgo(polls[i].CreatedAt)
	}
	return polls
}

func (h *PollHandler) createdAgo(t time.Time) string {
	return humanize.RelTime(t, h.now(), "ago", "from now")
}
