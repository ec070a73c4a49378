package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

type roleChangeLogPostgreSQL struct {
	db *gorm.DB
}

func NewRoleChangeLogPostgreSQL(db *gorm.DB) repositories.RoleChangeLogRepository {
	return &roleChangeLogPostgreSQL{db: db}
}

func (r *roleChangeLogPostgreSQL) Create(ctx context.Context, entry *models.RoleChangeLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return handleDBError(err, "create role change log")
	}
	return nil
}

func (r *roleChangeLogPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.RoleChangeLog, error) {
	var entries []*models.RoleChangeLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, handleDBError(err, "list role change logs")
	}
	return entries, nil
}
