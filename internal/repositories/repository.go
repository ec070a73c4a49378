package repositories

import (
	"context"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
)

// Repository aggregates every repository the service layer uses
type Repository interface {
	// User domain
	User() UserRepository
	StudentProfile() ProfileRepository
	LecturerProfile() ProfileRepository
	RoleChangeLog() RoleChangeLogRepository

	// Reference data
	Station() ReferenceRepository[models.Station]
	Disease() ReferenceRepository[models.Disease]
	Skill() ReferenceRepository[models.Skill]
	Hospital() ReferenceRepository[models.Hospital]
	Guidance() ReferenceRepository[models.Guidance]

	// Attendance
	StudentStation() StudentStationRepository
	Presence() PresenceRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
