package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	EventTypeUnexpectedError = "crm.error.unexpected"
)

// RecordType builds the event type for a change to one kind of record,
// e.g. crm.client.updated.
func RecordType(kind, action string) string {
	return fmt.Sprintf("crm.%s.%s", kind, action)
}

// RecordChangedEvent is published after every successful mutation.
type RecordChangedEvent struct {
	BaseEvent
	Kind      string  `json:"kind"`
	Action    string  `json:"action"`
	RecordIDs []int64 `json:"record_ids"`
	ActorID   int64   `json:"actor_id"`
}

func NewRecordChangedEvent(kind, action string, actorID int64, recordIDs []int64, fields map[string]interface{}) *RecordChangedEvent {
	data := map[string]interface{}{
		"kind":       kind,
		"action":     action,
		"record_ids": recordIDs,
		"actor_id":   actorID,
	}
	if len(fields) > 0 {
		data["fields"] = fields
	}
	return &RecordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      RecordType(kind, action),
			Timestamp: time.Now(),
			Data:      data,
		},
		Kind:      kind,
		Action:    action,
		RecordIDs: recordIDs,
		ActorID:   actorID,
	}
}

// UnexpectedErrorEvent reports a failure outside the application error
// taxonomy before it reaches the user.
type UnexpectedErrorEvent struct {
	BaseEvent
	Command string `json:"command"`
	Message string `json:"message"`
}

func NewUnexpectedErrorEvent(command string, err error) *UnexpectedErrorEvent {
	return &UnexpectedErrorEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUnexpectedError,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"command": command,
				"message": err.Error(),
			},
		},
		Command: command,
		Message: err.Error(),
	}
}

// Emit publishes evt synchronously. A failing sink is logged and never
// fails the operation that produced the event.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, evt Event) {
	if pub == nil {
		return
	}
	if err := pub.PublishSync(ctx, evt); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "event_type", evt.EventType(), "error", err)
	}
}
