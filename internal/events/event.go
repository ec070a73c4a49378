package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
)

const (
	EventSource  = "elogbook-service"
	EventVersion = "1.0"
)

// EventType names a domain event published by the service
type EventType string

const (
	EventUserRoleChanged  EventType = "user.role_changed"
	EventReferenceChanged EventType = "reference.changed"
	EventPresenceUpdated  EventType = "presence.updated"
)

// Event is the envelope every domain event is published in
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// RoleChangedData is the payload of user.role_changed
type RoleChangedData struct {
	UserID         uint            `json:"user_id"`
	ActorID        uint            `json:"actor_id"`
	FromRole       models.UserRole `json:"from_role"`
	ToRole         models.UserRole `json:"to_role"`
	ProfileCreated bool            `json:"profile_created"`
}

// ReferenceOp is the mutation applied to a reference record
type ReferenceOp string

const (
	ReferenceCreated ReferenceOp = "created"
	ReferenceUpdated ReferenceOp = "updated"
	ReferenceDeleted ReferenceOp = "deleted"
)

// ReferenceChangedData is the payload of reference.changed
type ReferenceChangedData struct {
	Kind models.ReferenceKind `json:"kind"`
	ID   uint                 `json:"id"`
	Op   ReferenceOp          `json:"op"`
}

// PresenceUpdatedData is the payload of presence.updated
type PresenceUpdatedData struct {
	StudentID uint `json:"student_id"`
	StationID uint `json:"station_id"`
	Present   int  `json:"present"`
	Sick      int  `json:"sick"`
	Excused   int  `json:"excused"`
	Absent    int  `json:"absent"`
	Created   bool `json:"created"`
}
