package models

import "time"

// StudentStation enrols a student in a station rotation.
type StudentStation struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	UserID    uint `json:"userId" gorm:"not null;uniqueIndex:idx_student_station"`
	StationID uint `json:"stationId" gorm:"not null;uniqueIndex:idx_student_station"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StudentStation) TableName() string {
	return "student_stations"
}

// Presence counts a student's attendance at one station.
type Presence struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"studentId" gorm:"not null;uniqueIndex:idx_presence_student_station"`
	StationID uint `json:"stationId" gorm:"not null;uniqueIndex:idx_presence_student_station"`
	Present   int  `json:"present" gorm:"not null;default:0"`
	Sick      int  `json:"sick" gorm:"not null;default:0"`
	Excused   int  `json:"excused" gorm:"not null;default:0"`
	Absent    int  `json:"absent" gorm:"not null;default:0"`

	Student *User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Station *Station `json:"station,omitempty" gorm:"foreignKey:StationID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Presence) TableName() string {
	return "presences"
}
