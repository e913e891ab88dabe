package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-streaks/docs"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler       *AuthHandler
	StreakHandler     *StreakHandler
	CompletionHandler *CompletionHandler
	StatsHandler      *StatsHandler
	TokenService      *services.TokenService
	Metrics           *metrics.Metrics
	DB                Pinger
	Redis             *redis.Client
	AllowedOrigins    []string
	RateLimit         middleware.RateLimitPolicy
	StartTime         time.Time
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CSRFHeaderName},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(deps.Metrics.Middleware())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "connected"
		if deps.DB == nil || deps.DB.PingContext(ctx) != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "connected"
		if deps.Redis == nil {
			redisStatus = "disabled"
		} else if deps.Redis.Ping(ctx).Err() != nil {
			redisStatus = "unreachable"
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")
	if deps.Redis != nil && deps.RateLimit.Limit > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit))
	}

	requireSession := middleware.AuthMiddleware(deps.TokenService)

	deps.AuthHandler.RegisterRoutes(apiV1, requireSession)

	protected := apiV1.Group("")
	protected.Use(requireSession)
	{
		deps.StreakHandler.RegisterRoutes(protected)
		deps.CompletionHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
	}

	return router
}
