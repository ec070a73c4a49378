package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/services"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
		})
		return 0
	}
	return uint(id)
}

// bindJSON binds the body or writes a 400; it reports whether binding succeeded
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// actor returns the authenticated caller set by AuthMiddleware
func (h *BaseHandler) actor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return models.Actor{}, false
	}
	return actor, true
}

// handleServiceError maps service error kinds to HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		first, _ := validationError.First()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: first.Error(),
			Details: validationError.Errors,
		})
		return
	}

	message := ""
	var domainError *services.DomainError
	if errors.As(err, &domainError) {
		message = domainError.Message
	}

	status, fallback := statusFor(err)
	if message == "" {
		message = fallback
	}
	if status == http.StatusInternalServerError {
		h.LogError(c, err, "Request failed")
	}

	c.JSON(status, ErrorResponse{Message: message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrValidationFailed):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "Resource conflict"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
