package asynq

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/domain/shared"
	"github.com/yegamble/licensevault/internal/infrastructure/jobs/tasks"
)

// EventPublisher implements the application layer's EventPublisher by
// enqueuing a TypeAuditRecord task for every domain event, so the audit
// trail is written out-of-band by the worker instead of adding a
// synchronous insert to every command.
type EventPublisher struct {
	client *Client
	logger zerolog.Logger
}

// NewEventPublisher builds an EventPublisher backed by client.
func NewEventPublisher(client *Client, logger zerolog.Logger) *EventPublisher {
	return &EventPublisher{client: client, logger: logger}
}

// Publish enqueues event for audit recording. Events that do not implement
// shared.DomainEvent are logged and dropped; callers treat Publish failures
// as non-fatal (the aggregate is already persisted).
func (p *EventPublisher) Publish(ctx context.Context, event interface{}) error {
	ev, ok := event.(shared.DomainEvent)
	if !ok {
		p.logger.Warn().
			Type("event", event).
			Msg("dropping event that does not implement DomainEvent")
		return nil
	}

	payload := tasks.AuditRecordPayload{
		EventID:    ev.EventID(),
		Action:     ev.EventType(),
		UserID:     ev.AggregateID(),
		OccurredAt: ev.OccurredAt().UTC().Format(time.RFC3339Nano),
	}

	if err := p.client.EnqueueTask(ctx, tasks.TypeAuditRecord, payload); err != nil {
		return fmt.Errorf("enqueue audit record task: %w", err)
	}
	return nil
}
