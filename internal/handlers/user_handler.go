package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/services"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
	roleService services.RoleService
}

func NewUserHandler(userService services.UserService, roleService services.RoleService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		roleService: roleService,
	}
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 100, max: 500)"
// @Param q query string false "Search query (username or email)"
// @Param role query string false "Filter by role"
// @Success 200 {object} services.UserListResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)
	users, err := h.userService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserSummary
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserRole changes a user's role
// @Summary Update user role
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.UpdateUserRoleRequest true "Role and user id"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/role [patch]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.UpdateUserRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user role", "target_id", req.ID, "role", req.Role)

	resp, err := h.roleService.UpdateUserRole(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRoleHistory lists the role changes of a user
// @Summary Role change history
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.RoleChangeLog
// @Router /admin/users/{id}/roles [get]
func (h *UserHandler) GetRoleHistory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	history, err := h.roleService.GetRoleHistory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := services.DefaultUserPageSize

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 500 {
			size = s
		}
	}

	filters := repositories.UserFilters{
		Query:  strings.TrimSpace(c.Query("q")),
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		if role := models.UserRole(roleStr); role.IsValid() {
			filters.Role = &role
		}
	}

	return filters
}
