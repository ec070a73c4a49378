package models

import (
	"slices"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleLecturer   UserRole = "lecturer"
	RoleSupervisor UserRole = "supervisor"
	RoleAdmin      UserRole = "admin"
	RoleMaster     UserRole = "master"
)

// AllRoles lists every role a user record may hold.
var AllRoles = []UserRole{RoleStudent, RoleLecturer, RoleSupervisor, RoleAdmin, RoleMaster}

// AssignableRoles lists the roles an administrator may hand out.
// Master is never assignable through the API.
var AssignableRoles = []UserRole{RoleStudent, RoleLecturer, RoleSupervisor, RoleAdmin}

func (r UserRole) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

func (r UserRole) IsAssignable() bool {
	return slices.Contains(AssignableRoles, r)
}

// HasProfile reports whether users holding this role own a profile record.
func (r UserRole) HasProfile() bool {
	return r == RoleStudent || r == RoleLecturer
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Roles    UserRole `json:"roles" gorm:"column:roles;not null;size:20;default:student"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Actor is the authenticated caller of an admin operation.
type Actor struct {
	ID    uint       `json:"id"`
	Roles []UserRole `json:"roles"`
}

func (a Actor) HasRole(role UserRole) bool {
	return slices.Contains(a.Roles, role)
}

// ActorFromUser builds the actor for a stored user record.
func ActorFromUser(u *User) Actor {
	return Actor{ID: u.ID, Roles: []UserRole{u.Roles}}
}
