// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Joshuakibwage/polling-app/models"
)

// Vote records userID's choice. The existing-vote check is a fast path; the
// votes unique constraint is what actually prevents duplicates, and a
// violation on insert is reported as ErrAlreadyVoted as well.
func (s *Store) Vote(ctx context.Context, in models.VoteInput, userID string) (*models.Vote, error) {
	const op = "store.Vote"

	now := s.now().UTC()

	poll, err := scanPoll(s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, in.PollID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPollNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load poll: %w", op, err)
	}
	if poll.IsClosed(now) {
		return nil, fmt.Errorf("%s: %w", op, ErrPollClosed)
	}

	var optionExists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2)
	`, in.OptionID, in.PollID).Scan(&optionExists)
	if err != nil {
		return nil, fmt.Errorf("%s: check option: %w", op, err)
	}
	if !optionExists {
		return nil, fmt.Errorf("%s: %w", op, ErrOptionNotFound)
	}

	// Single-vote polls share one slot per user; multiple-vote polls get one
	// slot per option.
	slot := ""
	if poll.AllowMultipleVotes {
		slot = in.OptionID
	}

	var voted bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 AND choice_slot = $3)
	`, in.PollID, userID, slot).Scan(&voted)
	if err != nil {
		return nil, fmt.Errorf("%s: check existing vote: %w", op, err)
	}
	if voted {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyVoted)
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		PollID:    in.PollID,
		OptionID:  in.OptionID,
		UserID:    userID,
		CreatedAt: now,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO votes (id, poll_id, option_id, user_id, choice_slot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, vote.ID, vote.PollID, vote.OptionID, vote.UserID, slot, vote.CreatedAt)
	if isUniqueViolation(err) {
		s.log.Info("duplicate vote rejected by constraint", "poll_id", in.PollID, "user_id", userID)
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyVoted)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: insert vote: %w", op, err)
	}

	return &vote, nil
}

// GetPollResults returns per-option tallies in option order. Counting is done
// by get_poll_results on PostgreSQL and the poll_results view on SQLite.
func (s *Store) GetPollResults(ctx context.Context, pollID string) ([]models.PollResult, error) {
	const op = "store.GetPollResults"

	query := `SELECT option_id, text, vote_count FROM poll_results WHERE poll_id = $1 ORDER BY position`
	if s.isPostgres() {
		query = `SELECT option_id, text, vote_count FROM get_poll_results($1)`
	}

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	results := make([]models.PollResult, 0)
	for rows.Next() {
		var r models.PollResult
		if err := rows.Scan(&r.OptionID, &r.Text, &r.VoteCount); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// HasUserVoted reports whether userID has any vote on pollID.
func (s *Store) HasUserVoted(ctx context.Context, pollID, userID string) (bool, error) {
	const op = "store.HasUserVoted"

	query := `SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)`
	if s.isPostgres() {
		query = `SELECT has_user_voted($1, $2)`
	}

	var voted bool
	if err := s.db.QueryRowContext(ctx, query, pollID, userID).Scan(&voted); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return voted, nil
}
