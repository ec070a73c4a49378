package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

type studentStationPostgreSQL struct {
	db *gorm.DB
}

func NewStudentStationPostgreSQL(db *gorm.DB) repositories.StudentStationRepository {
	return &studentStationPostgreSQL{db: db}
}

func (r *studentStationPostgreSQL) Get(ctx context.Context, studentID, stationID uint) (*models.StudentStation, error) {
	var enrolment models.StudentStation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND station_id = ?", studentID, stationID).
		First(&enrolment).Error; err != nil {
		return nil, handleDBError(err, "get student station")
	}
	return &enrolment, nil
}

func (r *studentStationPostgreSQL) FirstOrCreate(ctx context.Context, enrolment *models.StudentStation) (*models.StudentStation, bool, error) {
	var existing models.StudentStation
	result := r.db.WithContext(ctx).
		Where(models.StudentStation{UserID: enrolment.UserID, StationID: enrolment.StationID}).
		FirstOrCreate(&existing)
	if result.Error != nil {
		return nil, false, handleDBError(result.Error, "first or create student station")
	}
	return &existing, result.RowsAffected > 0, nil
}

type presencePostgreSQL struct {
	db *gorm.DB
}

func NewPresencePostgreSQL(db *gorm.DB) repositories.PresenceRepository {
	return &presencePostgreSQL{db: db}
}

func (r *presencePostgreSQL) List(ctx context.Context) ([]*models.Presence, error) {
	var presences []*models.Presence
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&presences).Error; err != nil {
		return nil, handleDBError(err, "list presences")
	}
	return presences, nil
}

func (r *presencePostgreSQL) FirstOrCreate(ctx context.Context, defaults *models.Presence) (*models.Presence, bool, error) {
	var presence models.Presence
	result := r.db.WithContext(ctx).
		Where(models.Presence{StudentID: defaults.StudentID, StationID: defaults.StationID}).
		Attrs(models.Presence{
			Present: defaults.Present,
			Sick:    defaults.Sick,
			Excused: defaults.Excused,
			Absent:  defaults.Absent,
		}).
		FirstOrCreate(&presence)
	if result.Error != nil {
		return nil, false, handleDBError(result.Error, "first or create presence")
	}
	return &presence, result.RowsAffected > 0, nil
}

func (r *presencePostgreSQL) UpdateCounts(ctx context.Context, id uint, counts repositories.PresenceCounts) error {
	// map form so zero counts are written
	if err := r.db.WithContext(ctx).
		Model(&models.Presence{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"present": counts.Present,
			"sick":    counts.Sick,
			"excused": counts.Excused,
			"absent":  counts.Absent,
		}).Error; err != nil {
		return handleDBError(err, "update presence counts")
	}
	return nil
}

func (r *presencePostgreSQL) Delete(ctx context.Context, studentID, stationID uint) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND station_id = ?", studentID, stationID).
		Delete(&models.Presence{})
	if result.Error != nil {
		return handleDBError(result.Error, "delete presence")
	}
	if result.RowsAffected == 0 {
		return handleDBError(repositories.ErrNotFound, "delete presence")
	}
	return nil
}

func (r *presencePostgreSQL) Report(ctx context.Context) ([]*models.PresenceReportRow, error) {
	var rows []*models.PresenceReportRow
	if err := r.db.WithContext(ctx).
		Table("presences p").
		Select(`p.student_id, u.username, p.station_id, s.name AS station_name,
			p.present, p.sick, p.excused, p.absent`).
		Joins("INNER JOIN users u ON u.id = p.student_id").
		Joins("INNER JOIN stations s ON s.id = p.station_id").
		Order("u.username ASC, s.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, handleDBError(err, "build presence report")
	}
	return rows, nil
}
