package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clitter/clitter/internal/middleware"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Access  middleware.Resolver

	Users *UserHandler
	Posts *PostHandler
	Media *MediaHandler

	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error

	// StaticRoot, when set, is served under StaticURL.
	StaticRoot string
	StaticURL  string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Metrics(cfg.Metrics))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, api-key")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "api-key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	if cfg.StaticRoot != "" && cfg.StaticURL != "" {
		router.Static(cfg.StaticURL, cfg.StaticRoot)
	}

	api := router.Group("/api")
	{
		api.POST("/register", cfg.Users.Register)

		protected := api.Group("")
		protected.Use(middleware.APIKeyAuth(cfg.Access))
		{
			protected.GET("/users/me", cfg.Users.Me)
			protected.GET("/users/:id", cfg.Users.GetProfile)
			protected.POST("/users/:id/follow", cfg.Users.Follow)
			protected.DELETE("/users/:id/follow", cfg.Users.Unfollow)

			protected.GET("/posts", cfg.Posts.List)
			protected.POST("/posts", cfg.Posts.Create)
			protected.GET("/posts/:id", cfg.Posts.Get)
			protected.DELETE("/posts/:id", cfg.Posts.Delete)
			protected.POST("/posts/:id/likes", cfg.Posts.Like)
			protected.DELETE("/posts/:id/likes", cfg.Posts.Unlike)
			protected.GET("/posts/:id/likes", cfg.Posts.Likes)

			protected.POST("/media", cfg.Media.Upload)
		}
	}

	return router
}
