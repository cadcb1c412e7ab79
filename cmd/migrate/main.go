// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command migrate applies or inspects the embedded schema migrations.
//
//	migrate -action up
//	migrate -action down -steps 1
//	migrate -action version -t postgres -d postgres://...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/Joshuakibwage/polling-app/db"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		action  string
		steps   int
		dbURL   string
		dbType  string
		envFile string
	)

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&action, "action", "up", "Migration action: up, down, force, version")
	fs.IntVar(&steps, "steps", 0, "Number of steps for up/down, or the version for force")
	fs.StringVar(&dbURL, "d", "", "Database URL (default $DATABASE_URL)")
	fs.StringVar(&dbType, "t", "", "Database type, sqlite or postgres (default $DATABASE_TYPE)")
	fs.StringVar(&envFile, "env-file", ".env", "Path to .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbType == "" {
		dbType = os.Getenv("DATABASE_TYPE")
	}
	if dbType == "" {
		dbType = db.TypeSQLite
	}
	if dbURL == "" {
		return errors.New("database URL is required (-d or DATABASE_URL)")
	}

	m, err := db.NewMigrator(dbType, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	switch action {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "force":
		err = m.Force(steps)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "Version: none")
			return nil
		}
		if verr != nil {
			return verr
		}
		fmt.Fprintf(out, "Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown action: %s", action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	fmt.Fprintf(out, "Migration %s complete\n", action)
	return nil
}
