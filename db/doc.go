// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and applies the embedded schema
migrations.

# Drivers

Two database types are supported:

  - postgres: production, via lib/pq
  - sqlite: local development and tests, via modernc.org/sqlite (no cgo)

SQLite connections are limited to a single open connection and get foreign
keys, a busy timeout, and WAL mode through SQLiteDSN.

# Migrations

Migrations live in migrations/<type>/ and are embedded into the binary. They
are applied with golang-migrate:

	if err := db.Migrate(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

Migrate opens its own connection because closing a migrator closes the
underlying database handle. cmd/migrate exposes up, down, force, and version.

# Tables

  - polls: poll metadata, owner (created_by), flags, optional expiry
  - poll_options: ordered choices, UNIQUE (poll_id, position)
  - votes: one row per counted choice, UNIQUE (poll_id, user_id, choice_slot)

choice_slot is empty for single-vote polls and the option id for
multiple-vote polls, so one constraint covers both rules. Votes carry no
foreign keys.

# Tallies

Results are computed in the database, never in Go:

  - postgres: get_poll_results(poll_uuid) and has_user_voted(poll_uuid, user_uuid)
  - sqlite: the poll_results view
*/
package db
