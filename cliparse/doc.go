// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Settings are resolved in this order, highest first:

 1. CLI flags
 2. Environment variables, including a .env file (never overriding the real environment)
 3. YAML file passed with -c
 4. Defaults

# CLI Flags

	-c           YAML config file
	-env-file    .env file (default ".env", empty to skip)
	-p           Server port
	-d           Database URL
	-t           Database type (sqlite or postgres)
	-log-level   Log level
	-jwt-secret  JWT signing secret

# Environment Variables

	PORT                          default 3318
	DATABASE_URL                  required
	DATABASE_TYPE                 sqlite (default) or postgres
	MIGRATE_ON_START              default true
	LOG_LEVEL, LOG_FORMAT         info, auto
	JWT_SECRET                    required
	JWT_ISSUER, JWT_AUDIENCE      optional claim checks
	JWT_LEEWAY                    default 30s
	CORS_ALLOWED_ORIGINS          comma separated, default *
	REDIS_ADDR, REDIS_PASSWORD    rate limiting is off without REDIS_ADDR
	CREATE_RATE_LIMIT_PER_MINUTE  default 10
	VOTE_RATE_LIMIT_PER_MINUTE    default 30
	SHUTDOWN_TIMEOUT              default 10s
*/
package cliparse
