package api

import (
	"context"
	"net/http"
	"time"

	chatHandler "recipe-chat/internal/api/handlers/chat"
	"recipe-chat/internal/api/handlers/health"
	"recipe-chat/internal/api/middleware"
	"recipe-chat/internal/core/ai/cache"
	"recipe-chat/internal/core/ai/gemini"
	chatService "recipe-chat/internal/core/chat"
	"recipe-chat/internal/core/corpus"
	"recipe-chat/internal/core/retrieval"
	"recipe-chat/internal/core/translate"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 120 * time.Second
	// Chat turns are short JSON payloads.
	maxBodySize = 1 << 20
)

// SetupRouter wires services and routes into a gin engine.
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// Corpus and similarity index: loaded once, immutable afterwards. A schema
	// error leaves the service operable with an empty corpus.
	corpusSvc := corpus.NewService(cfg.Corpus.Path)
	recipes, err := corpusSvc.Recipes()
	if err != nil {
		if common.IsSchemaError(err) {
			common.LogWarn("Corpus schema invalid, continuing with empty dataset",
				zap.Error(err),
				zap.String("path", cfg.Corpus.Path),
			)
			recipes = nil
		} else {
			common.LogError("Failed to load corpus", zap.Error(err))
			return nil, err
		}
	}

	retriever := retrieval.NewRetriever(recipes, cfg.Retrieval.MinScore, cfg.Retrieval.MaxTopN)

	aiClient := gemini.NewClient(cfg)
	translator := translate.NewClient(cfg)

	chatSvc := chatService.NewService(cfg, retriever, aiClient, translator, cacheManager)

	common.LogInfo("Services initialized",
		zap.Int("corpus_recipes", chatSvc.CorpusSize()),
		zap.Bool("index_built", chatSvc.IndexBuilt()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("translation_enabled", cfg.Translation.Enabled),
		zap.String("model", cfg.Gemini.Model),
	)

	// Per-request timeout and service injection.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		ctx = gemini.WithRequestID(ctx, c.GetHeader("X-Request-ID"))
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("chat_service", chatSvc)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": common.ErrGatewayTimeout.Message,
				"code":  common.ErrCodeGatewayTimeout,
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		handler := chatHandler.NewHandler(chatSvc)

		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("/recipe", handler.HandleRecipeChat)
			chatGroup.GET("/history/:session_id", handler.HandleHistory)
		}
	}

	common.LogInfo("Router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
