package api

import (
	"net/http"

	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret string
	Breaker   middleware.BreakerConfig
}

// NewRouter собирает gin с общими middleware; /api дополнительно защищен
// предохранителем и разбирает JWT вызывающего
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(h.Log))
	router.Use(gin.Recovery())
	router.Use(h.Metrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := router.Group("/api")
	api.Use(middleware.Breaker(cfg.Breaker, h.Log))
	api.Use(auth.Middleware(cfg.JWTSecret))
	{
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)
		api.GET("/me", h.Me)

		api.GET("/feed", h.GetFeed)
		api.POST("/posts", h.CreatePost)
		api.GET("/posts/:postId", h.GetPost)
		api.POST("/posts/:postId/like", h.ToggleLike)
		api.POST("/posts/:postId/comments", h.CreateComment)

		api.POST("/follow/:userId", h.ToggleFollow)
		api.GET("/users/search", h.SearchUsers)
		api.GET("/users/:userId", h.GetProfile)
		api.GET("/users/:userId/hover", h.GetHoverSummary)

		api.GET("/trending-topics", h.TrendingTopics)
	}

	return router
}
