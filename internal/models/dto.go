package models

import "time"

// ===== USER DTOs =====

// UserSummary is the user listing row exposed to admins.
type UserSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     UserRole  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserSummary(u *User) *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ===== PRESENCE DTOs =====

// PresenceReportRow is one line of the attendance export.
type PresenceReportRow struct {
	StudentID   uint   `json:"studentId"`
	Username    string `json:"username"`
	StationID   uint   `json:"stationId"`
	StationName string `json:"stationName"`
	Present     int    `json:"present"`
	Sick        int    `json:"sick"`
	Excused     int    `json:"excused"`
	Absent      int    `json:"absent"`
}

// Total returns the number of recorded sessions.
func (r *PresenceReportRow) Total() int {
	return r.Present + r.Sick + r.Excused + r.Absent
}

// MessageResponse is the fire-and-confirm body returned by admin mutations.
type MessageResponse struct {
	Message string `json:"message"`
}
