// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Joshuakibwage/polling-app/db"
	"github.com/Joshuakibwage/polling-app/models"
)

// Store is the only component that reads or writes poll, option, and vote rows.
type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for created_at, updated_at, and
// expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New wraps an open connection. dbType selects the dialect for tally queries.
func New(conn *sql.DB, dbType string, opts ...Option) *Store {
	s := &Store{
		db:      conn,
		dialect: dbType,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type scanner interface {
	Scan(dest ...any) error
}

const pollColumns = `id, title, description, category, created_by, is_active, is_public,
	allow_multiple_votes, expires_at, created_at, updated_at`

func scanPoll(row scanner) (models.Poll, error) {
	var (
		p           models.Poll
		description sql.NullString
		category    sql.NullString
		expiresAt   sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Title, &description, &category, &p.CreatedBy,
		&p.IsActive, &p.IsPublic, &p.AllowMultipleVotes,
		&expiresAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Poll{}, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	return p, nil
}

// placeholders returns "$from, $from+1, ..." for n parameters.
func placeholders(from, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(from + i))
	}
	return b.String()
}

// optionsFor loads options for the given polls keyed by poll id, each slice
// in insertion order.
func optionsFor(ctx context.Context, q queryer, pollIDs []string) (map[string][]models.PollOption, error) {
	out := make(map[string][]models.PollOption, len(pollIDs))
	if len(pollIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(pollIDs))
	for i, id := range pollIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, poll_id, text, position, created_at
		FROM poll_options
		WHERE poll_id IN (`+placeholders(1, len(pollIDs))+`)
		ORDER BY poll_id, position
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position, &o.CreatedAt); err != nil {
			return nil, err
		}
		out[o.PollID] = append(out[o.PollID], o)
	}
	return out, rows.Err()
}

// listPolls runs a poll query and attaches options. Rows are fully read
// before the options query so a single connection pool is never held twice.
func (s *Store) listPolls(ctx context.Context, query string, args ...any) ([]models.PollWithOptions, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	polls := make([]models.PollWithOptions, 0)
	ids := make([]string, 0)
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		polls = append(polls, models.PollWithOptions{Poll: p})
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	options, err := optionsFor(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range polls {
		polls[i].Options = nonNil(options[polls[i].ID])
	}
	return polls, nil
}

func nonNil(opts []models.PollOption) []models.PollOption {
	if opts == nil {
		return []models.PollOption{}
	}
	return opts
}

// rollback aborts tx. A failed rollback is logged and joined into cause.
func (s *Store) rollback(tx *sql.Tx, op string, cause error) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.log.Error("rollback failed", "op", op, "error", err)
		return errors.Join(cause, fmt.Errorf("%s: rollback: %w", op, err))
	}
	return cause
}

func (s *Store) isPostgres() bool {
	return s.dialect == db.TypePostgres
}
