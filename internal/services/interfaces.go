package services

import (
	"context"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type UpdateUserRoleRequest = validator.UpdateUserRoleRequest
type ReferenceRequest = validator.ReferenceRequest
type AssignStationRequest = validator.AssignStationRequest
type PresenceRequest = validator.PresenceRequest
type DeletePresenceRequest = validator.DeletePresenceRequest

const (
	MsgRoleUpdated      = "User role updated successfully"
	MsgPresenceSaved    = "Presence saved successfully"
	MsgPresenceDeleted  = "Presence deleted successfully"
	DefaultUserPageSize = 100
)

type UserListResponse struct {
	Users []*models.UserSummary `json:"users"`
	Total int64                 `json:"total"`
}

// ===== SERVICE INTERFACES =====

// RoleService owns the role transition workflow
type RoleService interface {
	// UpdateUserRole changes the target's role on behalf of actor and
	// provisions the matching profile for student and lecturer roles.
	UpdateUserRole(ctx context.Context, actor models.Actor, req *UpdateUserRoleRequest) (*models.MessageResponse, error)
	GetRoleHistory(ctx context.Context, userID uint) ([]*models.RoleChangeLog, error)
}

type UserService interface {
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	GetByID(ctx context.Context, id uint) (*models.UserSummary, error)
}

// ReferenceService manages stations, diseases, skills, hospitals and guidances
type ReferenceService interface {
	Create(ctx context.Context, kind models.ReferenceKind, req *ReferenceRequest) (interface{}, error)
	Update(ctx context.Context, kind models.ReferenceKind, req *ReferenceRequest) (interface{}, error)
	Delete(ctx context.Context, kind models.ReferenceKind, id uint) error
	GetElogbookInfo(ctx context.Context) (*models.ElogbookInfo, error)
}

type PresenceService interface {
	AssignStudentStation(ctx context.Context, req *AssignStationRequest) (*models.StudentStation, error)
	ListPresences(ctx context.Context) ([]*models.Presence, error)
	AddOrUpdatePresence(ctx context.Context, req *PresenceRequest) (*models.MessageResponse, error)
	DeletePresence(ctx context.Context, req *DeletePresenceRequest) (*models.MessageResponse, error)
}

// ExportService renders attendance reports
type ExportService interface {
	ExportPresences(ctx context.Context) ([]byte, error)
}

// ServiceManager manages all services
type ServiceManager interface {
	Role() RoleService
	User() UserService
	Reference() ReferenceService
	Presence() PresenceService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
