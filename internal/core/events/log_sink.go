package events

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal"
)

// RegisterLogSink writes every published event to the structured log.
func RegisterLogSink(bus *EventBus, logger *slog.Logger) {
	bus.Subscribe(AllEvents, func(ctx context.Context, event Event) error {
		level := slog.LevelInfo
		if event.EventType() == EventTypeUnexpectedError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "crm event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"acting_user_id", internal.UserIDFromContext(ctx),
			"data", event.Payload())
		return nil
	})
}
