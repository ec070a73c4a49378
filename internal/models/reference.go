package models

import "time"

// ReferenceKind names one of the e-logbook reference tables managed by admins.
type ReferenceKind string

const (
	KindStation  ReferenceKind = "station"
	KindDisease  ReferenceKind = "disease"
	KindSkill    ReferenceKind = "skill"
	KindHospital ReferenceKind = "hospital"
	KindGuidance ReferenceKind = "guidance"
)

var AllReferenceKinds = []ReferenceKind{KindStation, KindDisease, KindSkill, KindHospital, KindGuidance}

// Stationed reports whether records of this kind belong to a station.
func (k ReferenceKind) Stationed() bool {
	return k == KindDisease || k == KindSkill
}

type Station struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Station) TableName() string {
	return "stations"
}

type Disease struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:255;uniqueIndex:idx_disease_station_name"`
	Station uint   `json:"station" gorm:"column:station_id;not null;index;uniqueIndex:idx_disease_station_name"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Disease) TableName() string {
	return "diseases"
}

type Skill struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:255;uniqueIndex:idx_skill_station_name"`
	Station uint   `json:"station" gorm:"column:station_id;not null;index;uniqueIndex:idx_skill_station_name"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Skill) TableName() string {
	return "skills"
}

type Hospital struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:255"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

// Guidance is a teaching guidance method.
type Guidance struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:255"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Guidance) TableName() string {
	return "guidances"
}

// ElogbookInfo is the full reference data set rendered by the admin console.
type ElogbookInfo struct {
	Diseases  []*Disease  `json:"diseases"`
	Skills    []*Skill    `json:"skills"`
	Stations  []*Station  `json:"stations"`
	Hospitals []*Hospital `json:"hospitals"`
	Guidances []*Guidance `json:"guidances"`
}
