package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SAP-F-2025/elogbook-service/internal/config"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillPublisher_Publish(t *testing.T) {
	logger := testLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "elogbook.events")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	publisher := NewWatermillPublisher(pubSub, "elogbook.events", logger)
	event := NewEvent(EventUserRoleChanged, RoleChangedData{
		UserID:   7,
		ActorID:  1,
		FromRole: models.RoleSupervisor,
		ToRole:   models.RoleStudent,
	})

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != event.ID {
			t.Errorf("message UUID = %s, want %s", msg.UUID, event.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != string(EventUserRoleChanged) {
			t.Errorf("event_type metadata = %q", got)
		}

		var decoded struct {
			Type   EventType       `json:"type"`
			Source string          `json:"source"`
			Data   RoleChangedData `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("payload is not JSON: %v", err)
		}
		if decoded.Source != EventSource {
			t.Errorf("source = %q, want %q", decoded.Source, EventSource)
		}
		if decoded.Data.UserID != 7 || decoded.Data.ToRole != models.RoleStudent {
			t.Errorf("data = %+v", decoded.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNewPublisher_InProcessWithoutBrokers(t *testing.T) {
	publisher, err := NewPublisher(config.KafkaConfig{Topic: "elogbook.events"}, testLogger())
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	defer publisher.Close()

	if err := publisher.Publish(context.Background(), NewEvent(EventPresenceUpdated, PresenceUpdatedData{StudentID: 1})); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventReferenceChanged, ReferenceChangedData{Kind: models.KindStation, ID: 3, Op: ReferenceDeleted})

	if event.ID == "" {
		t.Error("event ID should not be empty")
	}
	if event.Version != EventVersion {
		t.Errorf("version = %q, want %q", event.Version, EventVersion)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	_ = mock.Publish(context.Background(), NewEvent(EventUserRoleChanged, nil))
	_ = mock.Publish(context.Background(), NewEvent(EventPresenceUpdated, nil))

	if got := len(mock.GetPublishedEvents()); got != 2 {
		t.Fatalf("recorded %d events, want 2", got)
	}
	mock.ClearEvents()
	if got := len(mock.GetPublishedEvents()); got != 0 {
		t.Errorf("recorded %d events after clear, want 0", got)
	}
}
