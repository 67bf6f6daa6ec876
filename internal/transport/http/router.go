package handlers

import (
	"net/http"
	"time"

	"studytracker/internal/logger"
	"studytracker/internal/middleware"
	"studytracker/internal/transport/http/envelope"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	// WriteRateLimit is the number of POSTs allowed per client per minute.
	// Zero, or a nil Limiter, disables limiting.
	WriteRateLimit int
	Limiter        *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig, log *logger.Logger, health *HealthHandler, topicHandler *TopicHandler, sessionHandler *SessionHandler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.TraceContext())
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "path", c.FullPath(), "panic", recovered)
		envelope.Abort(c, http.StatusInternalServerError, "internal error", "", nil)
	}))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.HeaderTraceID, middleware.HeaderRequestID}
	corsCfg.ExposeHeaders = []string{middleware.HeaderTraceID, middleware.HeaderRequestID}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		envelope.Abort(c, http.StatusNotFound, "route not found", "", nil)
	})
	r.NoMethod(func(c *gin.Context) {
		envelope.Abort(c, http.StatusMethodNotAllowed, "method not allowed", "", nil)
	})

	r.GET("/healthz", health.Health)
	r.GET("/readyz", health.Ready)

	var writeLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil && cfg.WriteRateLimit > 0 {
		writeLimit = cfg.Limiter.Limit("writes", cfg.WriteRateLimit, time.Minute)
	}

	register := func(g gin.IRoutes) {
		g.GET("/topics", topicHandler.List)
		g.POST("/topics", writeLimit, topicHandler.Create)
		g.GET("/topics/:topic_id", topicHandler.GetOne)
		g.POST("/sessions", writeLimit, sessionHandler.Create)
	}
	register(r)
	register(r.Group("/api/v1"))

	return r
}
