package handlers

import (
	"context"
	"net/http"
	"time"

	"studytracker/internal/logger"
	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the storage backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	service string
	store   Pinger
	log     *logger.Logger
}

func NewHealthHandler(service string, store Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{service: service, store: store, log: log}
}

// GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: h.service})
}

// GET /readyz reports whether storage answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("readiness check failed", "error", err)
		envelope.Abort(c, http.StatusServiceUnavailable, "storage unavailable", "", nil)
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: h.service})
}
