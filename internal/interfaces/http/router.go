// Package http assembles the gin route tree and the server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/prometheus"
	"github.com/hukumtek/LexIntel/internal/interfaces/http/handlers"
	"github.com/hukumtek/LexIntel/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies of
// the route tree.  Nil handlers leave their routes unmounted, which keeps
// partial wiring possible in tests and in the CLI.
type RouterConfig struct {
	Documents   *handlers.DocumentHandler
	Comparisons *handlers.ComparisonHandler
	Conflicts   *handlers.ConflictHandler
	Search      *handlers.SearchHandler
	Health      *handlers.HealthHandler

	Collector prometheus.Collector
	Metrics   *prometheus.AppMetrics
	RateLimit middleware.RateLimitConfig
	CORS      middleware.CORSConfig

	Mode   string
	Logger logging.Logger
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit))

	if cfg.Documents != nil {
		cfg.Documents.Register(api)
	}
	if cfg.Comparisons != nil {
		cfg.Comparisons.Register(api)
	}
	if cfg.Conflicts != nil {
		cfg.Conflicts.Register(api)
	}
	if cfg.Search != nil {
		cfg.Search.Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "COMMON_003", "message": "route not found"})
	})
	return r
}

// serverMode maps the configured mode onto the router.
func serverMode(cfg config.ServerConfig) string {
	if cfg.Mode == "" {
		return "release"
	}
	return cfg.Mode
}
