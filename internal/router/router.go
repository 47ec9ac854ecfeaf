package router

import (
	"fmt"
	"strings"

	"github.com/brightpods/admin-api/internal/cache"
	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/http/handlers"
	"github.com/brightpods/admin-api/internal/http/response"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP surface.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	handler := handlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bp"
	}
	leadRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:lead_ingest", redisPrefix),
		WindowSeconds: cfg.Security.LeadRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LeadRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	r.GET("/health", handler.Health)

	apiV1 := r.Group("/api/v1")
	{
		// Provider-facing; authenticated by signature, not API key.
		apiV1.POST("/webhooks/stripe", handler.StripeWebhook)

		// Automation-tool endpoints.
		automation := apiV1.Group("")
		automation.Use(APIKeyMiddleware(cfg.Automation.APIKey))
		{
			automation.POST("/leads/ingest",
				RateLimitMiddleware(cache.Client(), leadRule, KeyByIP),
				handler.IngestLead,
			)
			automation.POST("/onboarding/pending", handler.PendingOnboarding)
			automation.POST("/onboarding/check-status", handler.CheckOnboardingStatus)
		}
	}

	return r
}
