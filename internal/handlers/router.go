package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/metrics"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/services"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

type HandlerManager struct {
	userHandler      *UserHandler
	referenceHandler *ReferenceHandler
	presenceHandler  *PresenceHandler
	healthHandler    *HealthHandler
	authMiddleware   *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *AuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		userHandler:      NewUserHandler(serviceManager.User(), serviceManager.Role(), logger),
		referenceHandler: NewReferenceHandler(serviceManager.Reference(), logger),
		presenceHandler:  NewPresenceHandler(serviceManager.Presence(), serviceManager.Export(), logger),
		healthHandler:    NewHealthHandler(serviceManager, logger),
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Health)
	router.GET("/metrics", metrics.Handler())

	// Every admin route requires an authenticated admin; master passes as well
	admin := router.Group("/api/admin")
	admin.Use(hm.authMiddleware.Authenticate(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
	{
		for _, kind := range models.AllReferenceKinds {
			path := "/" + string(kind)
			admin.POST(path, hm.referenceHandler.Create(kind))
			admin.PATCH(path, hm.referenceHandler.Update(kind))
			admin.DELETE(path+"/:id", hm.referenceHandler.Delete(kind))
		}

		admin.GET("/elogbook", hm.referenceHandler.GetElogbookInfo)

		users := admin.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.PATCH("/role", hm.userHandler.UpdateUserRole)
			users.GET("/:id", hm.userHandler.GetUser)
			users.GET("/:id/roles", hm.userHandler.GetRoleHistory)
		}

		presence := admin.Group("/presence")
		{
			presence.GET("", hm.presenceHandler.ListPresences)
			presence.PUT("", hm.presenceHandler.AddOrUpdatePresence)
			presence.DELETE("", hm.presenceHandler.DeletePresence)
			presence.POST("/assignments", hm.presenceHandler.AssignStudentStation)
			presence.GET("/export", hm.presenceHandler.ExportPresences)
		}
	}
}
