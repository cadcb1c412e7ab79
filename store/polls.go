// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Joshuakibwage/polling-app/models"
)

// CreatePoll inserts the poll and all of its options in one transaction and
// returns the stored projection.
func (s *Store) CreatePoll(ctx context.Context, in models.CreatePollInput, ownerID string) (*models.PollWithOptions, error) {
	const op = "store.CreatePoll"

	now := s.now().UTC()
	pollID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, title, description, category, created_by, is_active, is_public,
			allow_multiple_votes, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, pollID, in.Title, in.Description, in.Category, ownerID, true, in.IsPublic,
		in.AllowMultipleVotes, utcPtr(in.ExpiresAt), now, now)
	if err != nil {
		return nil, s.rollback(tx, op, fmt.Errorf("%s: insert poll: %w", op, err))
	}

	// One statement for every option.
	values := make([]string, 0, len(in.Options))
	args := make([]any, 0, len(in.Options)*5)
	for i, text := range in.Options {
		values = append(values, "("+placeholders(len(args)+1, 5)+")")
		args = append(args, uuid.NewString(), pollID, text, i, now)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll_options (id, poll_id, text, position, created_at)
		VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		s.log.Warn("option insert failed, discarding poll", "poll_id", pollID, "error", err)
		return nil, s.rollback(tx, op, fmt.Errorf("%s: insert options: %w", op, err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	created, err := s.GetPoll(ctx, pollID)
	if err != nil {
		s.log.Error("created poll not readable", "poll_id", pollID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, ErrCreatedNotRetrievable)
	}

	return created, nil
}

// GetPoll returns the poll with its options. Misses and backend failures both
// satisfy errors.Is(err, ErrPollNotFound); backend causes stay wrapped.
func (s *Store) GetPoll(ctx context.Context, id string) (*models.PollWithOptions, error) {
	const op = "store.GetPoll"

	p, err := scanPoll(s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPollNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPollNotFound, err)
	}

	options, err := optionsFor(ctx, s.db, []string{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPollNotFound, err)
	}

	return &models.PollWithOptions{Poll: p, Options: nonNil(options[id])}, nil
}

// GetPolls returns one page of public polls, newest first. No rows is an
// empty slice.
func (s *Store) GetPolls(ctx context.Context, limit, offset int) ([]models.PollWithOptions, error) {
	const op = "store.GetPolls"

	polls, err := s.listPolls(ctx, `
		SELECT `+pollColumns+`
		FROM polls
		WHERE is_public = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, true, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return polls, nil
}

// GetUserPolls returns every poll owned by ownerID, newest first.
func (s *Store) GetUserPolls(ctx context.Context, ownerID string) ([]models.PollWithOptions, error) {
	const op = "store.GetUserPolls"

	polls, err := s.listPolls(ctx, `
		SELECT `+pollColumns+`
		FROM polls
		WHERE created_by = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return polls, nil
}

// UpdatePoll applies patch to a poll owned by ownerID. Only the title is
// mutable. A poll that is missing or owned by someone else yields ErrNotOwner.
func (s *Store) UpdatePoll(ctx context.Context, id string, patch models.PollPatch, ownerID string) (*models.Poll, error) {
	const op = "store.UpdatePoll"

	p, err := scanPoll(s.db.QueryRowContext(ctx, `
		UPDATE polls
		SET title = COALESCE($1, title), updated_at = $2
		WHERE id = $3 AND created_by = $4
		RETURNING `+pollColumns,
		patch.Title, s.now().UTC(), id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ClosePoll marks a poll owned by ownerID inactive so it stops taking votes.
func (s *Store) ClosePoll(ctx context.Context, id, ownerID string) (*models.Poll, error) {
	const op = "store.ClosePoll"

	p, err := scanPoll(s.db.QueryRowContext(ctx, `
		UPDATE polls
		SET is_active = $1, updated_at = $2
		WHERE id = $3 AND created_by = $4
		RETURNING `+pollColumns,
		false, s.now().UTC(), id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// DeletePoll removes a poll owned by ownerID together with its options.
// Options are deleted explicitly rather than relying on the cascade alone.
func (s *Store) DeletePoll(ctx context.Context, id, ownerID string) error {
	const op = "store.DeletePoll"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM poll_options
		WHERE poll_id IN (SELECT id FROM polls WHERE id = $1 AND created_by = $2)
	`, id, ownerID)
	if err != nil {
		return s.rollback(tx, op, fmt.Errorf("%s: delete options: %w", op, err))
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM polls WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return s.rollback(tx, op, fmt.Errorf("%s: delete poll: %w", op, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.rollback(tx, op, fmt.Errorf("%s: rows affected: %w", op, err))
	}
	if n == 0 {
		return s.rollback(tx, op, fmt.Errorf("%s: %w", op, ErrNotOwner))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
