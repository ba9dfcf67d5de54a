package main

import (
	"ClaimProcess/cache"
	"ClaimProcess/database"
	"ClaimProcess/logging"
	"ClaimProcess/ratelimit"
	"ClaimProcess/repositories"
	"ClaimProcess/routes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port (or set PORT)")
	f.StringVar(&cfg.RedisAddress, "redis-url", cfg.RedisAddress, "Redis URL for caching and shared rate limits (or set REDIS_URL)")
	f.StringVar(&cfg.TopFeesRateLimit, "top-fees-rate-limit", cfg.TopFeesRateLimit, "Per-caller limit of the top net fees endpoint, e.g. 10/minute")
	f.BoolVar(&cfg.InMemory, "in-memory", cfg.InMemory, "Keep claims in process memory instead of PostgreSQL")
	f.BoolVar(&cfg.AutoMigrate, "auto-migrate", cfg.AutoMigrate, "Apply schema migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	policy, err := ratelimit.ParsePolicy(cfg.TopFeesRateLimit)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	var claimCache *cache.Cache
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisAddress, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		defer redisClient.Close()

		if claimCache, err = cache.NewCache(redisClient); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
	}

	deps := routes.Dependencies{Log: log}
	if cfg.InMemory {
		log.Warn().Msg("claims are kept in memory and lost on exit")
		deps.ClaimRepository = repositories.NewMemoryClaimRepository()
	} else {
		db, err := database.InitDB(ctx, cfg.DBURL, log)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close(db)

		if cfg.AutoMigrate {
			if err := database.RunMigrations(db); err != nil {
				return err
			}
		}
		deps.ClaimRepository = repositories.NewClaimRepository(db, claimCache, log)
		deps.Ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	if redisClient != nil {
		deps.TopFeesLimiter = ratelimit.NewRedisLimiter(redisClient, "ratelimit:top10netfees", policy)
	} else {
		deps.TopFeesLimiter = ratelimit.NewMemoryLimiter(policy)
	}

	handler := routes.SetupRoutes(cfg, deps)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	serveErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case <-c:
	case err := <-serveErr:
		return fmt.Errorf("listen and serve: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	wg.Wait()
	if redisClient != nil {
		database.MonitorRedisPool(redisClient, log)
	}
	log.Info().Msg("server exited gracefully")
	return nil
}
