package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler
	checker healthChecker
}

func NewHealthHandler(checker healthChecker, logger utils.Logger) *HealthHandler {
	return &HealthHandler{BaseHandler: NewBaseHandler(logger), checker: checker}
}

// Health reports database and cache reachability
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	body := gin.H{
		"service":   "elogbook-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.checker.HealthCheck(ctx); err != nil {
		h.LogError(c, err, "Health check failed")
		body["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}
