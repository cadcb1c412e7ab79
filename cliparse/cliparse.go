// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           int    `yaml:"port" env:"PORT" env-default:"3318"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	DatabaseType   string `yaml:"database_type" env:"DATABASE_TYPE" env-default:"sqlite"`
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"MIGRATE_ON_START" env-default:"true"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"auto"`

	// Session tokens are HS256 JWTs signed by the auth provider.
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer   string        `yaml:"jwt_issuer" env:"JWT_ISSUER"`
	JWTAudience string        `yaml:"jwt_audience" env:"JWT_AUDIENCE"`
	JWTLeeway   time.Duration `yaml:"jwt_leeway" env:"JWT_LEEWAY" env-default:"30s"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`

	// Rate limiting is disabled when RedisAddr is empty.
	RedisAddr       string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword   string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	CreateRateLimit int    `yaml:"create_rate_limit_per_minute" env:"CREATE_RATE_LIMIT_PER_MINUTE" env-default:"10"`
	VoteRateLimit   int    `yaml:"vote_rate_limit_per_minute" env:"VOTE_RATE_LIMIT_PER_MINUTE" env-default:"30"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// ParseFlags builds the configuration. Precedence, highest first: command
// line flags, environment (including a .env file), the YAML file given with
// -c, then defaults.
func ParseFlags(args []string) (Config, error) {
	var (
		cfg        Config
		configPath string
		envFile    string
		port       int
		dbURL      string
		dbType     string
		logLevel   string
		jwtSecret  string
	)

	fs := flag.NewFlagSet("polling-app", flag.ContinueOnError)

	fs.StringVar(&configPath, "c", "", "Path to YAML config file")
	fs.StringVar(&envFile, "env-file", ".env", "Path to .env file")

	// Network config (can be CLI args or env)
	fs.IntVar(&port, "p", 0, "Server port")
	fs.StringVar(&dbURL, "d", "", "Database URL")
	fs.StringVar(&dbType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&jwtSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	var err error
	if configPath != "" {
		err = cleanenv.ReadConfig(configPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Explicit flags win over everything else.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = port
		case "d":
			cfg.DatabaseURL = dbURL
		case "t":
			cfg.DatabaseType = dbType
		case "log-level":
			cfg.LogLevel = logLevel
		case "jwt-secret":
			cfg.JWTSecret = jwtSecret
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported DATABASE_TYPE %q (sqlite or postgres)", c.DatabaseType)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.CreateRateLimit < 0 || c.VoteRateLimit < 0 {
		return errors.New("rate limits must not be negative")
	}
	return nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
