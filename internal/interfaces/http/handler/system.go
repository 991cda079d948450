package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database answers
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves the health and ping endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	clock     shared.Clock
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil.
func NewSystemHandler(db Pinger, clock shared.Clock) *SystemHandler {
	return &SystemHandler{
		db:        db,
		clock:     clock,
		startTime: clock.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime"`
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status: "ok",
		Uptime: h.clock.Now().Sub(h.startTime).Round(time.Second).String(),
	}
	if h.db == nil {
		h.Success(c, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp,
			Error: &dto.ErrorInfo{Code: dto.ErrCodeInternal, Message: "Database unreachable"}})
		return
	}
	resp.Database = "up"
	h.Success(c, resp)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping godoc
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: h.clock.Now().Format(time.RFC3339),
	})
}
