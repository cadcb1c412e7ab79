// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Joshuakibwage/polling-app/middleware"
	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/testutil"
)

// serve routes req through a one-route mux so path values and the session
// are resolved the same way the router does.
func serve(t *testing.T, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, middleware.WithSession(testutil.NewVerifier(t), h))
	w := httptest.NewRecorder()
	middleware.WithRequestID(mux).ServeHTTP(w, req)
	return w
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreatePoll(ctx context.Context, in models.CreatePollInput, ownerID string) (*models.PollWithOptions, error) {
	args := m.Called(ctx, in, ownerID)
	poll, _ := args.Get(0).(*models.PollWithOptions)
	return poll, args.Error(1)
}

func (m *mockStore) GetPoll(ctx context.Context, id string) (*models.PollWithOptions, error) {
	args := m.Called(ctx, id)
	poll, _ := args.Get(0).(*models.PollWithOptions)
	return poll, args.Error(1)
}

func (m *mockStore) GetPolls(ctx context.Context, limit, offset int) ([]models.PollWithOptions, error) {
	args := m.Called(ctx, limit, offset)
	polls, _ := args.Get(0).([]models.PollWithOptions)
	return polls, args.Error(1)
}

func (m *mockStore) GetUserPolls(ctx context.Context, ownerID string) ([]models.PollWithOptions, error) {
	args := m.Called(ctx, ownerID)
	polls, _ := args.Get(0).([]models.PollWithOptions)
	return polls, args.Error(1)
}

func (m *mockStore) UpdatePoll(ctx context.Context, id string, patch models.PollPatch, ownerID string) (*models.Poll, error) {
	args := m.Called(ctx, id, patch, ownerID)
	poll, _ := args.Get(0).(*models.Poll)
	return poll, args.Error(1)
}

func (m *mockStore) ClosePoll(ctx context.Context, id, ownerID string) (*models.Poll, error) {
	args := m.Called(ctx, id, ownerID)
	poll, _ := args.Get(0).(*models.Poll)
	return poll, args.Error(1)
}

func (m *mockStore) DeletePoll(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockStore) Vote(ctx context.Context, in models.VoteInput, userID string) (*models.Vote, error) {
	args := m.Called(ctx, in, userID)
	vote, _ := args.Get(0).(*models.Vote)
	return vote, args.Error(1)
}

func (m *mockStore) GetPollResults(ctx context.Context, pollID string) ([]models.PollResult, error) {
	args := m.Called(ctx, pollID)
	results, _ := args.Get(0).([]models.PollResult)
	return results, args.Error(1)
}

func (m *mockStore) HasUserVoted(ctx context.Context, pollID, userID string) (bool, error) {
	args := m.Called(ctx, pollID, userID)
	return args.Bool(0), args.Error(1)
}

var _ PollStore = (*mockStore)(nil)
