package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	asynqlib "github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	licensecommands "github.com/yegamble/licensevault/internal/application/license/commands"
	"github.com/yegamble/licensevault/internal/domain/license"
	"github.com/yegamble/licensevault/internal/infrastructure/email"
	"github.com/yegamble/licensevault/internal/infrastructure/jobs/tasks"
)

// LicenseExpireSweepHandler processes TypeLicenseExpireSweep tasks by
// running one pass of the expiration sweep. Registered on the worker
// Server's mux and triggered on a schedule by the Scheduler.
type LicenseExpireSweepHandler struct {
	handler *licensecommands.ExpireDueLicensesHandler
	logger  zerolog.Logger
}

// NewLicenseExpireSweepHandler builds a LicenseExpireSweepHandler.
func NewLicenseExpireSweepHandler(h *licensecommands.ExpireDueLicensesHandler, logger zerolog.Logger) *LicenseExpireSweepHandler {
	return &LicenseExpireSweepHandler{handler: h, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *LicenseExpireSweepHandler) ProcessTask(ctx context.Context, _ *asynqlib.Task) error {
	count, err := h.handler.Handle(ctx, licensecommands.ExpireDueLicensesCommand{AsOf: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("license expire sweep: %w", err)
	}
	h.logger.Info().Int("expired", count).Msg("license expiration sweep task completed")
	return nil
}

// MailDeliverHandler processes TypeMailDeliver tasks by sending the
// requested transactional email through an email.Sender. A send failure is
// logged and returned so Asynq retries with its default backoff; the
// verification/reset token itself is already durable in the cache, so a
// retry (or eventual give-up) never loses the user's ability to request a
// fresh email.
type MailDeliverHandler struct {
	sender email.Sender
	cfg    email.Config
	logger zerolog.Logger
}

// NewMailDeliverHandler builds a MailDeliverHandler.
func NewMailDeliverHandler(sender email.Sender, cfg email.Config, logger zerolog.Logger) *MailDeliverHandler {
	return &MailDeliverHandler{sender: sender, cfg: cfg, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *MailDeliverHandler) ProcessTask(ctx context.Context, t *asynqlib.Task) error {
	var payload tasks.MailDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal mail deliver payload: %w", err)
	}

	var msg email.Message
	switch payload.Kind {
	case "verify_email":
		msg = h.cfg.VerificationEmail(payload.Email, payload.Token)
	case "password_reset":
		msg = h.cfg.PasswordResetEmail(payload.Email, payload.Token)
	default:
		return fmt.Errorf("mail deliver: unknown kind %q", payload.Kind)
	}

	sendCtx, cancel := context.WithTimeout(ctx, email.SendTimeout())
	defer cancel()

	if err := h.sender.Send(sendCtx, msg); err != nil {
		h.logger.Error().Err(err).Str("kind", payload.Kind).Msg("mail delivery failed")
		return fmt.Errorf("send mail: %w", err)
	}

	h.logger.Info().Str("kind", payload.Kind).Msg("mail delivered")
	return nil
}

// AuditRecordHandler processes TypeAuditRecord tasks by appending the event
// to the relational audit log. Entries are keyed by the event's own id, so
// a redelivered task overwrites nothing and fails on the duplicate key,
// which Asynq treats as terminal after retries.
type AuditRecordHandler struct {
	audit  license.AuditLog
	logger zerolog.Logger
}

// NewAuditRecordHandler builds an AuditRecordHandler.
func NewAuditRecordHandler(audit license.AuditLog, logger zerolog.Logger) *AuditRecordHandler {
	return &AuditRecordHandler{audit: audit, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *AuditRecordHandler) ProcessTask(ctx context.Context, t *asynqlib.Task) error {
	var payload tasks.AuditRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal audit record payload: %w", err)
	}

	entry := license.AuditEntry{
		ID:     payload.EventID,
		Action: payload.Action,
		Detail: payload.Detail,
	}
	if payload.UserID != "" {
		entry.UserID = &payload.UserID
	}
	if payload.OccurredAt != "" {
		if occurred, err := time.Parse(time.RFC3339Nano, payload.OccurredAt); err == nil {
			entry.CreatedAt = occurred
		}
	}

	if err := h.audit.Record(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	h.logger.Debug().Str("action", payload.Action).Msg("audit entry recorded")
	return nil
}
