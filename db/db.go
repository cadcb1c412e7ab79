// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// sqlitePragmas are applied to every SQLite connection opened through SQLiteDSN.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

// DriverName maps a configured database type to its database/sql driver.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case TypePostgres:
		return "postgres", nil
	case TypeSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// SQLiteDSN builds a connection string for a SQLite file with the pragmas
// the store relies on (foreign keys, busy timeout, WAL).
func SQLiteDSN(path string) string {
	path = strings.TrimPrefix(path, "file:")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + sqlitePragmas
}

// Open connects to the database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	if dbType == TypeSQLite && !strings.Contains(url, "_pragma") {
		url = SQLiteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == TypeSQLite {
		// SQLite allows a single writer.
		conn.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// NewMigrator returns a migrate instance on its own connection. Closing the
// migrator closes that connection.
func NewMigrator(dbType, url string) (*migrate.Migrate, error) {
	conn, err := Open(dbType, url)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrations, "migrations/"+dbType)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	var m *migrate.Migrate
	switch dbType {
	case TypePostgres:
		driver, derr := migratepg.WithInstance(conn, &migratepg.Config{})
		if derr != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to init postgres migrations: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
	case TypeSQLite:
		driver, derr := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
		if derr != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to init sqlite migrations: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// Migrate applies all pending up migrations. Running it on an up-to-date
// database is a no-op.
func Migrate(dbType, url string) error {
	m, err := NewMigrator(dbType, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
