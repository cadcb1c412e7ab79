package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Joshuakibwage/polling-app/auth"
	"github.com/Joshuakibwage/polling-app/cliparse"
	"github.com/Joshuakibwage/polling-app/db"
	"github.com/Joshuakibwage/polling-app/logging"
	"github.com/Joshuakibwage/polling-app/middleware"
	"github.com/Joshuakibwage/polling-app/ratelimit"
	"github.com/Joshuakibwage/polling-app/router"
	"github.com/Joshuakibwage/polling-app/store"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Database schema ready")
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	sessions, err := auth.NewVerifier(auth.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   cfg.JWTLeeway,
	})
	if err != nil {
		logger.Error("session verifier setup failed", "error", err)
		os.Exit(1)
	}

	deps := router.Deps{
		Store:    store.New(dbConn, cfg.DatabaseType, store.WithLogger(logger)),
		Sessions: sessions,
	}

	if cfg.RedisAddr != "" {
		client, err := ratelimit.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		deps.CreateLimiter = newLimiter(logger, client, "polls:create", cfg.CreateRateLimit)
		deps.VoteLimiter = newLimiter(logger, client, "polls:vote", cfg.VoteRateLimit)
		logger.Info("rate limiting enabled", "redis", cfg.RedisAddr)
	}

	server := &http.Server{
		Handler:           router.NewRouter(deps, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	logger.Info("Listening", "port", cfg.Port, "database", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server closed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server closed")
}

// newLimiter returns a per-minute limiter, or nil when the limit is zero.
func newLimiter(logger *slog.Logger, client *redis.Client, prefix string, perMinute int) middleware.Limiter {
	if perMinute == 0 {
		return nil
	}
	limiter, err := ratelimit.NewFixedWindowLimiter(client, prefix, perMinute, time.Minute)
	if err != nil {
		logger.Error("rate limiter setup failed", "prefix", prefix, "error", err)
		os.Exit(1)
	}
	return limiter
}
