package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/adapter/handler"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/middleware"
)

const (
	MediaRoute     = "/media"
	MediaAPIPrefix = "/api/v1/media"
)

type Router struct {
	engine         *gin.Engine
	mediaHandler   *handler.MediaHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	logger         *zap.Logger
}

type RouterConfig struct {
	MediaHandler   *handler.MediaHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimiter is optional; uploads are unthrottled when nil.
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
	Environment string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:         engine,
		mediaHandler:   cfg.MediaHandler,
		authMiddleware: cfg.AuthMiddleware,
		rateLimiter:    cfg.RateLimiter,
		logger:         cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.ErrorHandler(r.logger))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public delivery. The handler is built once and shared by every request.
	serve := r.mediaHandler.Serve()
	r.engine.GET(MediaRoute+"/*"+handler.KeyParam, serve)

	media := r.engine.Group(MediaAPIPrefix)
	media.Use(r.authMiddleware.RequireAuth())
	{
		upload := []gin.HandlerFunc{}
		if r.rateLimiter != nil {
			upload = append(upload, r.rateLimiter.Limit())
		}
		upload = append(upload, r.mediaHandler.Upload)

		media.POST("", upload...)
		media.GET("/exists/*"+handler.KeyParam, r.mediaHandler.Exists)
		media.DELETE("/*"+handler.KeyParam, r.mediaHandler.Delete)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
