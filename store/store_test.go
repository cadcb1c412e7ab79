// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/store"
	"github.com/Joshuakibwage/polling-app/testutil"
)

// steppingClock advances one second per call so created_at is strictly ordered.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func TestCreatePoll(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()

	desc := "Pick one"
	expires := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	poll, err := s.CreatePoll(ctx, models.CreatePollInput{
		Title:              "Favorite color",
		Description:        &desc,
		Options:            []string{"Red", "Green", "Blue"},
		IsPublic:           true,
		AllowMultipleVotes: true,
		ExpiresAt:          &expires,
	}, "owner-1")
	require.NoError(t, err)

	_, err = uuid.Parse(poll.ID)
	assert.NoError(t, err, "poll id should be a UUID")
	assert.Equal(t, "Favorite color", poll.Title)
	assert.Equal(t, "owner-1", poll.CreatedBy)
	assert.True(t, poll.IsActive)
	assert.True(t, poll.IsPublic)
	assert.True(t, poll.AllowMultipleVotes)
	require.NotNil(t, poll.Description)
	assert.Equal(t, "Pick one", *poll.Description)
	assert.Nil(t, poll.Category)
	require.NotNil(t, poll.ExpiresAt)
	assert.True(t, expires.Equal(*poll.ExpiresAt))

	require.Len(t, poll.Options, 3)
	for i, text := range []string{"Red", "Green", "Blue"} {
		assert.Equal(t, text, poll.Options[i].Text)
		assert.Equal(t, i, poll.Options[i].Position)
		assert.Equal(t, poll.ID, poll.Options[i].PollID)
	}
}

func TestCreatePoll_RollsBackOnOptionFailure(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)

	// Option text over 200 characters violates the poll_options CHECK.
	_, err := s.CreatePoll(context.Background(), models.CreatePollInput{
		Title:    "Orphan?",
		Options:  []string{"fine", strings.Repeat("x", 201)},
		IsPublic: true,
	}, "owner-1")
	require.Error(t, err)

	assert.Equal(t, 0, testutil.CountRows(t, conn, "polls", ""), "no poll row may survive")
	assert.Equal(t, 0, testutil.CountRows(t, conn, "poll_options", ""))
}

func TestGetPoll_RoundTrip(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	created := testutil.CreateTestPoll(t, s, "owner-1", "T", "A", "B")

	got, err := s.GetPoll(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "T", got.Title)
	texts := []string{got.Options[0].Text, got.Options[1].Text}
	assert.ElementsMatch(t, []string{"A", "B"}, texts)
}

func TestGetPoll_NotFound(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)

	_, err := s.GetPoll(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrPollNotFound)
}

func TestGetPoll_BackendErrorReportsNotFound(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	conn.Close()

	_, err := s.GetPoll(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrPollNotFound)
}

func TestGetPolls_Pagination(t *testing.T) {
	s, _ := testutil.SetupTestStore(t, store.WithClock(steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		testutil.CreateTestPoll(t, s, "owner-1", fmt.Sprintf("Poll %02d", i))
	}

	first, err := s.GetPolls(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "Poll 14", first[0].Title, "newest first")
	assert.Equal(t, "Poll 05", first[9].Title)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].CreatedAt.After(first[i].CreatedAt), "descending created_at")
	}
	for _, p := range first {
		assert.Len(t, p.Options, 2)
	}

	rest, err := s.GetPolls(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, rest, 5)
	assert.Equal(t, "Poll 04", rest[0].Title)
	assert.Equal(t, "Poll 00", rest[4].Title)

	none, err := s.GetPolls(ctx, 10, 100)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetPolls_OnlyPublic(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()

	testutil.CreateTestPoll(t, s, "owner-1", "Public")
	_, err := s.CreatePoll(ctx, models.CreatePollInput{
		Title:    "Private",
		Options:  []string{"a", "b"},
		IsPublic: false,
	}, "owner-1")
	require.NoError(t, err)

	polls, err := s.GetPolls(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, "Public", polls[0].Title)
}

func TestGetUserPolls(t *testing.T) {
	s, _ := testutil.SetupTestStore(t, store.WithClock(steppingClock(time.Now())))
	ctx := context.Background()

	testutil.CreateTestPoll(t, s, "owner-1", "First")
	testutil.CreateTestPoll(t, s, "owner-2", "Someone else")
	testutil.CreateTestPoll(t, s, "owner-1", "Second")

	polls, err := s.GetUserPolls(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, polls, 2)
	assert.Equal(t, "Second", polls[0].Title)
	assert.Equal(t, "First", polls[1].Title)

	polls, err = s.GetUserPolls(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, polls)
}

func TestUpdatePoll(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Old title")

	title := "New title"
	updated, err := s.UpdatePoll(ctx, poll.ID, models.PollPatch{Title: &title}, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(poll.UpdatedAt))

	// Options are untouched.
	got, err := s.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, got.Options, 2)
}

func TestUpdatePoll_NotOwner(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Mine")

	title := "Hijacked"
	_, err := s.UpdatePoll(ctx, poll.ID, models.PollPatch{Title: &title}, "intruder")
	assert.ErrorIs(t, err, store.ErrNotOwner)

	got, err := s.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestClosePoll(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Closing")

	_, err := s.ClosePoll(ctx, poll.ID, "intruder")
	assert.ErrorIs(t, err, store.ErrNotOwner)

	closed, err := s.ClosePoll(ctx, poll.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, closed.IsActive)

	_, err = s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID}, "voter-1")
	assert.ErrorIs(t, err, store.ErrPollClosed)
}

func TestDeletePoll(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Doomed")
	keep := testutil.CreateTestPoll(t, s, "owner-1", "Survivor")

	err := s.DeletePoll(ctx, poll.ID, "intruder")
	assert.ErrorIs(t, err, store.ErrNotOwner)
	assert.Equal(t, 4, testutil.CountRows(t, conn, "poll_options", ""), "failed delete must not remove options")

	require.NoError(t, s.DeletePoll(ctx, poll.ID, "owner-1"))

	_, err = s.GetPoll(ctx, poll.ID)
	assert.ErrorIs(t, err, store.ErrPollNotFound)
	assert.Equal(t, 0, testutil.CountRows(t, conn, "poll_options", "poll_id = $1", poll.ID))
	assert.Equal(t, 2, testutil.CountRows(t, conn, "poll_options", "poll_id = $1", keep.ID))
}

func TestVote(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Vote here")

	vote, err := s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID}, "voter-1")
	require.NoError(t, err)
	assert.Equal(t, poll.ID, vote.PollID)
	assert.Equal(t, poll.Options[1].ID, vote.OptionID)
	assert.Equal(t, "voter-1", vote.UserID)

	// Second vote on a single-vote poll, even for another option.
	_, err = s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID}, "voter-1")
	assert.ErrorIs(t, err, store.ErrAlreadyVoted)
	assert.Equal(t, 1, testutil.CountRows(t, conn, "votes", "poll_id = $1 AND user_id = $2", poll.ID, "voter-1"))
}

func TestVote_MultipleVotes(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.CreatePollInput{
		Title:              "Pick many",
		Options:            []string{"a", "b", "c"},
		IsPublic:           true,
		AllowMultipleVotes: true,
	}, "owner-1")
	require.NoError(t, err)

	for _, opt := range poll.Options[:2] {
		_, err := s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: opt.ID}, "voter-1")
		require.NoError(t, err)
	}

	_, err = s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID}, "voter-1")
	assert.ErrorIs(t, err, store.ErrAlreadyVoted)
	assert.Equal(t, 2, testutil.CountRows(t, conn, "votes", "user_id = $1", "voter-1"))
}

func TestVote_Errors(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, _ := testutil.SetupTestStore(t, store.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, s, "owner-1", "Open")
	other := testutil.CreateTestPoll(t, s, "owner-1", "Other")

	past := now.Add(-time.Hour)
	expired, err := s.CreatePoll(ctx, models.CreatePollInput{
		Title:     "Expired",
		Options:   []string{"a", "b"},
		IsPublic:  true,
		ExpiresAt: &past,
	}, "owner-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input models.VoteInput
		want  error
	}{
		{"missing poll", models.VoteInput{PollID: uuid.NewString(), OptionID: poll.Options[0].ID}, store.ErrPollNotFound},
		{"option from another poll", models.VoteInput{PollID: poll.ID, OptionID: other.Options[0].ID}, store.ErrOptionNotFound},
		{"expired poll", models.VoteInput{PollID: expired.ID, OptionID: expired.Options[0].ID}, store.ErrPollClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Vote(ctx, tt.input, "voter-1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVote_ConcurrentSameUser(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Race")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opt := poll.Options[i%len(poll.Options)]
			_, err := s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: opt.ID}, "racer")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, store.ErrAlreadyVoted), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, testutil.CountRows(t, conn, "votes", "user_id = $1", "racer"))
}

func TestGetPollResults(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Tally", "A", "B", "C")

	for i, voter := range []string{"v1", "v2", "v3"} {
		opt := poll.Options[0]
		if i == 2 {
			opt = poll.Options[2]
		}
		_, err := s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: opt.ID}, voter)
		require.NoError(t, err)
	}

	results, err := s.GetPollResults(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.PollResult{OptionID: poll.Options[0].ID, Text: "A", VoteCount: 2}, results[0])
	assert.Equal(t, models.PollResult{OptionID: poll.Options[1].ID, Text: "B", VoteCount: 0}, results[1])
	assert.Equal(t, models.PollResult{OptionID: poll.Options[2].ID, Text: "C", VoteCount: 1}, results[2])

	empty, err := s.GetPollResults(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHasUserVoted(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, s, "owner-1", "Voted?")

	voted, err := s.HasUserVoted(ctx, poll.ID, "voter-1")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = s.Vote(ctx, models.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID}, "voter-1")
	require.NoError(t, err)

	voted, err = s.HasUserVoted(ctx, poll.ID, "voter-1")
	require.NoError(t, err)
	assert.True(t, voted)

	voted, err = s.HasUserVoted(ctx, poll.ID, "voter-2")
	require.NoError(t, err)
	assert.False(t, voted)
}
