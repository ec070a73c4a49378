package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

// referencePostgreSQL implements ReferenceRepository for any reference model with
// `id`, `name` and optionally `station_id` columns.
type referencePostgreSQL[T any] struct {
	db        *gorm.DB
	name      string
	stationed bool
}

func NewStationPostgreSQL(db *gorm.DB) repositories.ReferenceRepository[models.Station] {
	return &referencePostgreSQL[models.Station]{db: db, name: "station"}
}

func NewDiseasePostgreSQL(db *gorm.DB) repositories.ReferenceRepository[models.Disease] {
	return &referencePostgreSQL[models.Disease]{db: db, name: "disease", stationed: true}
}

func NewSkillPostgreSQL(db *gorm.DB) repositories.ReferenceRepository[models.Skill] {
	return &referencePostgreSQL[models.Skill]{db: db, name: "skill", stationed: true}
}

func NewHospitalPostgreSQL(db *gorm.DB) repositories.ReferenceRepository[models.Hospital] {
	return &referencePostgreSQL[models.Hospital]{db: db, name: "hospital"}
}

func NewGuidancePostgreSQL(db *gorm.DB) repositories.ReferenceRepository[models.Guidance] {
	return &referencePostgreSQL[models.Guidance]{db: db, name: "guidance"}
}

func (r *referencePostgreSQL[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return handleDBError(err, "create "+r.name)
	}
	return nil
}

func (r *referencePostgreSQL[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	item := new(T)
	if err := r.db.WithContext(ctx).First(item, id).Error; err != nil {
		return nil, handleDBError(err, "get "+r.name+" by id")
	}
	return item, nil
}

func (r *referencePostgreSQL[T]) List(ctx context.Context) ([]*T, error) {
	var items []*T
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, handleDBError(err, "list "+r.name)
	}
	return items, nil
}

func (r *referencePostgreSQL[T]) ExistsByName(ctx context.Context, name string, stationID *uint, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(new(T)).Where("name = ?", name)
	if r.stationed && stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check "+r.name+" name")
	}
	return count > 0, nil
}

func (r *referencePostgreSQL[T]) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return handleDBError(result.Error, "update "+r.name)
	}
	if result.RowsAffected == 0 {
		return handleDBError(repositories.ErrNotFound, "update "+r.name)
	}
	return nil
}

func (r *referencePostgreSQL[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete "+r.name)
	}
	if result.RowsAffected == 0 {
		return handleDBError(repositories.ErrNotFound, "delete "+r.name)
	}
	return nil
}
