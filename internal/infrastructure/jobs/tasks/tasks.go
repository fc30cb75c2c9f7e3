// Package tasks defines the asynq task types, payloads, and constructors
// shared between the enqueuing side (MailDispatcher, the expiration
// scheduler) and the processing side (the worker's ServeMux handlers), so
// both agree on task type strings and payload shapes without importing each
// other.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeMailDeliver is the task type for a single transactional email
	// send (verification, password reset), enqueued by the auth service's
	// MailDispatcher and processed by the worker's mail handler.
	TypeMailDeliver = "mail:deliver"

	// TypeLicenseExpireSweep is the task type for the periodic Active ->
	// Expired sweep. It carries no payload; the handler always sweeps
	// as of the time it runs.
	TypeLicenseExpireSweep = "license:expire_sweep"

	// TypeAuditRecord is the task type for appending a domain event to the
	// audit log, enqueued by the event publisher after successful
	// persistence and processed by the worker's audit handler.
	TypeAuditRecord = "audit:record"
)

// AuditRecordPayload is the JSON payload carried by a TypeAuditRecord task.
type AuditRecordPayload struct {
	EventID    string `json:"event_id"`
	Action     string `json:"action"` // event type, e.g. "user.registered"
	UserID     string `json:"user_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"` // RFC 3339 UTC
}

// MailDeliverPayload is the JSON payload carried by a TypeMailDeliver task.
type MailDeliverPayload struct {
	Kind  string `json:"kind"` // "verify_email" | "password_reset"
	Email string `json:"email"`
	Token string `json:"token"`
}

// NewMailDeliverTask builds the asynq.Task for delivering a single
// transactional email.
func NewMailDeliverTask(payload MailDeliverPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal mail deliver payload: %w", err)
	}
	return asynq.NewTask(TypeMailDeliver, b), nil
}

// NewLicenseExpireSweepTask builds the payload-less asynq.Task that
// triggers one run of the license expiration sweep.
func NewLicenseExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TypeLicenseExpireSweep, nil)
}
