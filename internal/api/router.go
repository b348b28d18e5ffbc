package api

import (
	"context"
	"net/http"
	"time"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/auth"
	"meal-planner/internal/core/dish"
	"meal-planner/internal/core/group"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository/postgres"
	"meal-planner/internal/telegram"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// AI generation dominates request latency, so the request timeout has
	// to cover a cold-cache resolution.
	timeoutDuration = 120 * time.Second
	maxBodySize     = 1 << 20
)

// SetupRouter wires repositories, services and handlers onto the engine.
func SetupRouter(cfg *config.Config, db *database.Database, hot *ai.HotCache) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
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
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(timeoutMiddleware(timeoutDuration))

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	groupRepo := postgres.NewGroupRepository(db.DB)
	dishRepo := postgres.NewDishRepository(db.DB)
	manualRepo := postgres.NewManualIngredientRepository(db.DB)
	cacheRepo := postgres.NewDishCacheRepository(db.DB)

	// Services
	var generator ai.Generator = ai.NewOpenRouterClient(cfg)
	resolver := ai.NewResolver(generator, cacheRepo, hot)
	if !cfg.OpenRouter.Enabled {
		resolver.Disable()
	}

	authService := auth.NewService(userRepo, cfg.Telegram.BotToken, cfg.Telegram.AuthMaxAge, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	groupService := group.NewService(groupRepo)

	var notifier dish.Notifier
	if cfg.Telegram.BotToken != "" {
		n, err := telegram.NewNotifier(cfg.Telegram.BotToken, groupRepo)
		if err != nil {
			// The bot is best-effort: the API works without notifications.
			common.LogWarn("telegram notifier disabled", zap.Error(err))
		} else {
			notifier = n
		}
	}

	dishService := dish.NewService(dishRepo, groupRepo, userRepo, resolver, groupService, notifier)
	shoppingService := shopping.NewService(dishRepo, manualRepo, groupRepo, groupService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewGroupHandler(groupService)
	dishHandler := handlers.NewDishHandler(dishService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService)
	healthHandler := health.NewHandler(cfg.App.Version, db)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		apiGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	apiGroup.POST("/auth/telegram", authHandler.Login)

	authed := apiGroup.Group("")
	authed.Use(middleware.Auth(authService))
	authed.Use(middleware.Deduplication(cfg))
	{
		authed.POST("/groups", groupHandler.Create)
		authed.POST("/groups/join", groupHandler.Join)
		authed.GET("/groups/me", groupHandler.GetMine)
		authed.GET("/groups/:groupID", groupHandler.Get)
		authed.PATCH("/groups/:groupID/preferences", groupHandler.UpdatePreferences)

		authed.POST("/groups/:groupID/dishes", dishHandler.Create)
		authed.GET("/groups/:groupID/dishes", dishHandler.List)
		authed.GET("/dishes/:dishID", dishHandler.Get)
		authed.PATCH("/dishes/:dishID", dishHandler.Update)
		authed.DELETE("/dishes/:dishID", dishHandler.Delete)
		authed.PATCH("/ingredients/:ingredientID", dishHandler.SetIngredientPurchased)

		authed.GET("/groups/:groupID/shopping-list", shoppingHandler.List)
		authed.GET("/groups/:groupID/ingredients", shoppingHandler.ListManual)
		authed.POST("/groups/:groupID/ingredients", shoppingHandler.AddManual)
		authed.PATCH("/manual-ingredients/:itemID", shoppingHandler.UpdateManual)
		authed.DELETE("/manual-ingredients/:itemID", shoppingHandler.DeleteManual)
	}

	common.LogInfo("router setup completed")
	return router, nil
}

func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
		}
	}
}
