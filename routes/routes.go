package routes

import (
	"ClaimProcess/config"
	"ClaimProcess/controllers"
	"ClaimProcess/handlers"
	"ClaimProcess/middlewares"
	"ClaimProcess/ratelimit"
	"ClaimProcess/repositories"
	"ClaimProcess/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	ClaimRepository repositories.ClaimRepository
	TopFeesLimiter  ratelimit.Limiter
	// Ping checks the claim store; nil for a process-local store.
	Ping func(ctx context.Context) error
	Log  zerolog.Logger
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cfg *config.AppConfig, deps Dependencies) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	// Client identity is the connection's remote address.
	if err := router.SetTrustedProxies(nil); err != nil {
		deps.Log.Error().Err(err).Msg("failed to disable trusted proxies")
	}

	router.Use(middlewares.RequestID())
	router.Use(middlewares.LoggingMiddleware(deps.Log))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middlewares.RequestIDHeader},
		ExposedHeaders: []string{middlewares.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.GlobalRPS,
		Burst:             cfg.GlobalBurst,
	}))

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = config.DefaultMaxBodyBytes
	}
	router.Use(middlewares.LimitBodySize(maxBodyBytes))
	router.Use(middlewares.LowercaseJSONKeys())

	claimService := services.NewClaimService(deps.ClaimRepository, deps.Log)
	claimHandler := handlers.NewClaimHandler(claimService, deps.Log)

	claimController := controllers.NewClaimController(claimHandler)
	claimController.RegisterRoutes(router, middlewares.RateLimitByKey(deps.TopFeesLimiter, middlewares.ClientIPKey, deps.Log))

	controllers.SetupRootRoute(router, handlers.NewHealthHandler(deps.Ping))

	return router
}
