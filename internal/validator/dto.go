package validator

// UpdateUserRoleRequest is the body of PATCH /api/admin/users/role
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"role_name"`
	ID   uint   `json:"id"`
}

// ReferenceRequest creates or updates a station, disease, skill, hospital or guidance
type ReferenceRequest struct {
	ID      uint   `json:"id"`
	Name    string `json:"name" validate:"reference_name"`
	Station *uint  `json:"station,omitempty"`
}

// AssignStationRequest enrols a student in a station
type AssignStationRequest struct {
	StudentID uint `json:"studentId" validate:"required"`
	StationID uint `json:"stationId" validate:"required"`
}

// PresenceRequest sets the attendance counters of a student in a station
type PresenceRequest struct {
	StudentID uint `json:"studentId" validate:"required"`
	StationID uint `json:"stationId" validate:"required"`
	Present   int  `json:"present" validate:"presence_count"`
	Sick      int  `json:"sick" validate:"presence_count"`
	Excused   int  `json:"excused" validate:"presence_count"`
	Absent    int  `json:"absent" validate:"presence_count"`
}

// DeletePresenceRequest identifies a presence row by its natural key
type DeletePresenceRequest struct {
	StudentID uint `json:"studentId" validate:"required"`
	StationID uint `json:"stationId" validate:"required"`
}
