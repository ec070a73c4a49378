package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoleChangeLog records one successful role transition.
type RoleChangeLog struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	UserID   uint           `json:"userId" gorm:"not null;index"`
	ActorID  uint           `json:"actorId" gorm:"not null;index"`
	FromRole UserRole       `json:"fromRole" gorm:"size:20;not null"`
	ToRole   UserRole       `json:"toRole" gorm:"size:20;not null"`
	Details  datatypes.JSON `json:"details" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
}

func (RoleChangeLog) TableName() string {
	return "role_change_logs"
}

// AllModels returns every model managed by auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&StudentProfile{},
		&LecturerProfile{},
		&Station{},
		&Disease{},
		&Skill{},
		&Hospital{},
		&Guidance{},
		&StudentStation{},
		&Presence{},
		&RoleChangeLog{},
	}
}
