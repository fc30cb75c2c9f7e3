package asynq

import (
	"context"
	"fmt"

	"github.com/yegamble/licensevault/internal/application/identity"
	"github.com/yegamble/licensevault/internal/infrastructure/jobs/tasks"
)

// MailDispatcher implements identity.MailDispatcher by enqueuing a
// TypeMailDeliver task on the Asynq client. The auth commands call Enqueue
// synchronously but never wait on delivery: the task is processed
// out-of-band by the worker's mail handler, fire-and-forget.
type MailDispatcher struct {
	client *Client
}

// NewMailDispatcher builds a MailDispatcher backed by client.
func NewMailDispatcher(client *Client) *MailDispatcher {
	return &MailDispatcher{client: client}
}

// Enqueue schedules task for background delivery.
func (d *MailDispatcher) Enqueue(ctx context.Context, task identity.MailTask) error {
	payload := tasks.MailDeliverPayload{
		Kind:  task.Kind,
		Email: task.Email,
		Token: task.Token,
	}

	if err := d.client.EnqueueTask(ctx, tasks.TypeMailDeliver, payload); err != nil {
		return fmt.Errorf("enqueue mail deliver task: %w", err)
	}
	return nil
}
