package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

// profilePostgreSQL serves one profile table; StudentProfile and LecturerProfile share the column set.
type profilePostgreSQL struct {
	db    *gorm.DB
	table string
}

func NewStudentProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profilePostgreSQL{db: db, table: models.StudentProfile{}.TableName()}
}

func NewLecturerProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profilePostgreSQL{db: db, table: models.LecturerProfile{}.TableName()}
}

func (r *profilePostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, handleDBError(err, "get "+r.table+" by user id")
	}
	return &profile, nil
}

func (r *profilePostgreSQL) FirstOrCreate(ctx context.Context, defaults *models.Profile) (*models.Profile, bool, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).
		Table(r.table).
		Where("user_id = ?", defaults.UserID).
		Attrs(models.Profile{
			UserID:    defaults.UserID,
			FirstName: defaults.FirstName,
			LastName:  defaults.LastName,
		}).
		FirstOrCreate(&profile)
	if result.Error != nil {
		return nil, false, handleDBError(result.Error, "first or create "+r.table)
	}

	// FirstOrCreate reports zero affected rows when the record already existed
	return &profile, result.RowsAffected > 0, nil
}
