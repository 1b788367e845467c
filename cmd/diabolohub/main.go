// Package main is the entry point for the Diabolo Hub API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diabolohub/internal/cache"
	"diabolohub/internal/coach"
	"diabolohub/internal/config"
	"diabolohub/internal/database"
	"diabolohub/internal/handlers"
	"diabolohub/internal/middleware"
	"diabolohub/internal/router"
	"diabolohub/internal/session"
	"diabolohub/internal/storage"
	"diabolohub/internal/store"
	"diabolohub/internal/tutorial"
)

func main() {
	// Load configuration from environment variables (and .env).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + coach conversations).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient, cfg.SecureCookies)

	// Tutorial catalog, parsed once from the embedded YAML.
	tutorials, err := tutorial.NewStore()
	if err != nil {
		slog.Error("failed to load tutorial catalog", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	forumStore := store.NewForumStore(db)
	mediaStore := store.NewMediaStore(db)
	submissionStore := store.NewSubmissionStore(db)

	// Connect to S3-compatible object storage (optional; uploads answer 503 without it).
	var storageClient *storage.Client
	if cfg.StorageEnabled() {
		storageClient, err = storage.New(storage.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBucket:  cfg.S3BucketPublic,
			PrivateBucket: cfg.S3BucketPrivate,
			PublicURL:     cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	// AI coach (optional; the endpoint answers 503 without a key).
	var coachClient coach.Client
	if cfg.GeminiKey != "" {
		model, err := coach.NewGemini(context.Background(), coach.GeminiConfig{
			APIKey:      cfg.GeminiKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.CoachTemperature,
		})
		if err != nil {
			slog.Error("failed to initialize coach model", "error", err)
			os.Exit(1)
		}
		history := coach.NewCacheHistory(cache.NewConversationCache(valkeyClient, cfg.CoachHistoryTTL))
		coachClient = coach.NewService(model, history)
		slog.Info("coach initialized", "model", model.Name(), "history_ttl", cfg.CoachHistoryTTL)
	} else {
		slog.Warn("GEMINI_API_KEY not set, coach disabled")
	}

	// Per-caller limiters; a zero limit disables one.
	var authLimiter, coachLimiter *middleware.RateLimiter
	if cfg.RateLimitAuth > 0 {
		authLimiter = middleware.NewRateLimiter("login", cfg.RateLimitAuth, time.Minute)
		defer authLimiter.Stop()
	}
	if cfg.RateLimitCoach > 0 {
		coachLimiter = middleware.NewRateLimiter("coach", cfg.RateLimitCoach, time.Minute)
		defer coachLimiter.Stop()
	}

	// Create handler groups with their dependencies.
	uploader := handlers.NewUploader(storageClient, mediaStore)
	h := router.Handlers{
		Auth:    handlers.NewAuth(sessionStore, userStore),
		Profile: handlers.NewProfile(userStore, uploader),
		Forum:   handlers.NewForum(forumStore, userStore),
		Uploads: handlers.NewUploads(uploader, submissionStore),
		Learn:   handlers.NewLearn(tutorials),
		Coach:   handlers.NewCoach(coachClient, cfg.SecureCookies),
		Admin:   handlers.NewAdmin(submissionStore, mediaStore, userStore, storageClient),
	}

	r := router.New(router.Options{
		Sessions:     sessionStore,
		Secure:       cfg.SecureCookies,
		CORSOrigins:  cfg.CORSOrigins,
		AuthLimiter:  authLimiter,
		CoachLimiter: coachLimiter,
		Ready: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			return valkeyClient.Ping(ctx).Err()
		},
	}, h)

	// WriteTimeout must accommodate coach requests that wait on the model
	// and large video uploads.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
