package events

import (
	"context"
	"log/slog"
)

// Publisher defines the interface for a component that delivers events to
// subscribers.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// NoOpPublisher drops every event. It is used when no queue is configured.
type NoOpPublisher struct{}

// Make sure we conform to the interface
var _ Publisher = NoOpPublisher{}

func (NoOpPublisher) Publish(context.Context, ...Event) error { return nil }

// Notify publishes events for a change that is already committed. Delivery
// failures are logged, never returned: the change itself succeeded.
func Notify(ctx context.Context, logger *slog.Logger, p Publisher, events ...Event) {
	if p == nil || len(events) == 0 {
		return
	}
	if err := p.Publish(ctx, events...); err != nil {
		attrs := make([]any, 0, len(events))
		for _, e := range events {
			attrs = append(attrs, slog.String(string(e.Type), e.AggregateID))
		}
		logger.ErrorContext(ctx, "committed change but failed to publish events",
			"error", err, slog.Group("events", attrs...))
	}
}
