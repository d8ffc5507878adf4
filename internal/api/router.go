package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowOrigins []string `mapstructure:"allow-origins"`
	// RateLimit is the global requests per second; zero disables limiting.
	RateLimit int `mapstructure:"rate-limit"`
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", HeaderRequestID},
		AllowCredentials: false,
	}))

	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit))
	}

	h.RegisterRoutes(router)
	return router
}
