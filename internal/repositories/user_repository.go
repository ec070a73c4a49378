package repositories

import (
	"context"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string           // Search query for username or email
	Role   *models.UserRole // Restrict to one role
	Limit  int              // Page size
	Offset int              // Offset for pagination
}

// UserRepository interface for user operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	UpdateRole(ctx context.Context, id uint, role models.UserRole) error

	ExistsWithRole(ctx context.Context, id uint, role models.UserRole) (bool, error)
}

// ProfileRepository addresses one per-role profile table
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	// FirstOrCreate returns the profile keyed by defaults.UserID, inserting defaults when absent.
	FirstOrCreate(ctx context.Context, defaults *models.Profile) (*models.Profile, bool, error)
}

// RoleChangeLogRepository stores the role audit trail
type RoleChangeLogRepository interface {
	Create(ctx context.Context, entry *models.RoleChangeLog) error
	ListByUser(ctx context.Context, userID uint) ([]*models.RoleChangeLog, error)
}
