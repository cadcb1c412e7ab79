// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command devtoken prints a signed session token for local testing.
//
//	curl -H "Authorization: Bearer $(devtoken -user alice)" localhost:3318/me/polls
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Joshuakibwage/polling-app/auth"
)

type tokenConfig struct {
	Secret   string `env:"JWT_SECRET"`
	Issuer   string `env:"JWT_ISSUER"`
	Audience string `env:"JWT_AUDIENCE"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		userID  string
		ttl     time.Duration
		envFile string
	)

	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.StringVar(&userID, "user", "", "User id to place in the sub claim")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	fs.StringVar(&envFile, "env-file", ".env", "Path to .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if userID == "" {
		return errors.New("-user is required")
	}
	if ttl <= 0 {
		return errors.New("-ttl must be positive")
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg tokenConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	token, err := auth.IssueToken(auth.Config{
		Secret:   cfg.Secret,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	}, userID, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	return nil
}
