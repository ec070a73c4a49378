package repositories

import (
	"context"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
)

// ReferenceRepository is the CRUD surface shared by the e-logbook reference tables
type ReferenceRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context) ([]*T, error)
	// ExistsByName checks name uniqueness, scoped to a station when stationID is set.
	// excludeID skips the record being updated; pass 0 on create.
	ExistsByName(ctx context.Context, name string, stationID *uint, excludeID uint) (bool, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// StudentStationRepository manages student enrolments in stations
type StudentStationRepository interface {
	Get(ctx context.Context, studentID, stationID uint) (*models.StudentStation, error)
	FirstOrCreate(ctx context.Context, enrolment *models.StudentStation) (*models.StudentStation, bool, error)
}

// PresenceCounts holds the attendance counters of a presence row
type PresenceCounts struct {
	Present int `json:"present"`
	Sick    int `json:"sick"`
	Excused int `json:"excused"`
	Absent  int `json:"absent"`
}

// PresenceRepository manages attendance counters
type PresenceRepository interface {
	List(ctx context.Context) ([]*models.Presence, error)
	// FirstOrCreate returns the row keyed by (StudentID, StationID), inserting defaults when absent.
	FirstOrCreate(ctx context.Context, defaults *models.Presence) (*models.Presence, bool, error)
	UpdateCounts(ctx context.Context, id uint, counts PresenceCounts) error
	Delete(ctx context.Context, studentID, stationID uint) error
	Report(ctx context.Context) ([]*models.PresenceReportRow, error)
}
