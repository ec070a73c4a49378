package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

type userPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userPostgreSQL{db: db}
}

func (r *userPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

func (r *userPostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user for update")
	}
	return &user, nil
}

func (r *userPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by username")
	}
	return &user, nil
}

func (r *userPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Query != "" {
		search := "%" + filters.Query + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", search, search)
	}
	if filters.Role != nil {
		query = query.Where("roles = ?", *filters.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	query = applyPaginationAndSort(query, "id", "asc", filters.Limit, filters.Offset)
	if err := query.
		Select("id", "username", "email", "roles", "created_at", "updated_at").
		Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "list users")
	}

	return users, total, nil
}

func (r *userPostgreSQL) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("roles", role)
	if result.Error != nil {
		return handleDBError(result.Error, "update user role")
	}
	if result.RowsAffected == 0 {
		return handleDBError(repositories.ErrNotFound, "update user role")
	}
	return nil
}

func (r *userPostgreSQL) ExistsWithRole(ctx context.Context, id uint, role models.UserRole) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND roles = ?", id, role).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user role")
	}
	return count > 0, nil
}
