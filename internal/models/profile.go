package models

import "time"

// Profile holds the columns shared by every per-role profile table.
// Repositories address the concrete table explicitly.
type Profile struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	UserID    uint    `json:"userId" gorm:"uniqueIndex;not null"`
	FirstName string  `json:"firstName" gorm:"not null;size:100"`
	LastName  *string `json:"lastName" gorm:"size:100"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StudentProfile struct {
	Profile
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type LecturerProfile struct {
	Profile
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (LecturerProfile) TableName() string {
	return "lecturer_profiles"
}
