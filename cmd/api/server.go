package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/oauth"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/workers"
)

// backends are the stores and clients the application runs on.
type backends struct {
	streaks     domain.StreakRepository
	completions domain.CompletionRepository
	users       domain.UserRepository
	db          adapterHTTP.Pinger
	redis       *redis.Client
	provider    adapterHTTP.IdentityProvider
}

type app struct {
	router *gin.Engine
	worker *workers.StreakWorker
	tokens *services.TokenService
}

func newApp(cfg *config.Config, b backends, m *metrics.Metrics, startTime time.Time) *app {
	streakRepo, completionRepo := b.streaks, b.completions
	if b.redis != nil {
		streakCache := repository.NewStreakCache(b.redis, m)
		streakRepo = repository.NewCachedStreakRepository(streakRepo, streakCache)
		completionRepo = repository.NewCachedCompletionRepository(completionRepo, streakCache)
	}

	loc := cfg.Location()

	worker := workers.NewStreakWorker(streakRepo, completionRepo).
		WithClock(time.Now, loc).
		WithRecorder(m)

	tokenService := services.NewTokenService(cfg.SessionSecret, cfg.TokenIssuer, cfg.SessionTTL, b.users)
	authService := services.NewAuthService(b.users)
	streakService := services.NewStreakService(streakRepo)
	completionService := services.NewCompletionService(completionRepo, streakRepo, worker).WithClock(time.Now, loc)
	statsService := services.NewStatsService(streakRepo).WithClock(time.Now, loc).WithRecorder(m)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler: adapterHTTP.NewAuthHandler(authService, tokenService, b.provider, adapterHTTP.AuthHandlerConfig{
			FrontendURL:  cfg.FrontendURL,
			SecureCookie: cfg.SecureCookies,
		}),
		StreakHandler:     adapterHTTP.NewStreakHandler(streakService, statsService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		TokenService:      tokenService,
		Metrics:           m,
		DB:                b.db,
		Redis:             b.redis,
		AllowedOrigins:    cfg.Origins(),
		RateLimit: middleware.RateLimitPolicy{
			Limit:     cfg.RateLimit,
			Window:    cfg.RateLimitWindow,
			KeyPrefix: cfg.RateLimitPrefix,
		},
		StartTime:         startTime,
	})

	return &app{
		router: router,
		worker: worker,
		tokens: tokenService,
	}
}

func connectDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	log.Println("Connecting to database...")

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxConns)
	db.SetMaxIdleConns(cfg.DBMaxConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")
	return db, nil
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.CreateSchema(ctx, db); err != nil {
		return err
	}

	log.Println("Schema is up to date.")
	return nil
}

func runServe(parent context.Context) error {
	startTime := time.Now()

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.CreateSchema(ctx, db); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, running without cache and rate limiting: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	m := metrics.New()

	application := newApp(cfg, backends{
		streaks:     repository.NewPostgresStreakRepository(db),
		completions: repository.NewPostgresCompletionRepository(db),
		users:       repository.NewPostgresUserRepository(db.DB),
		db:          db,
		redis:       rdb,
		provider: oauth.NewGoogleProvider(oauth.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}),
	}, m, startTime)

	application.worker.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      application.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Kanso Streaks running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("critical server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Println("Server stopped gracefully.")
	return nil
}
