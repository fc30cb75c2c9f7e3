package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yegamble/licensevault/internal/domain/license"
)

// ExpireDueLicensesCommand carries the as-of instant the sweep compares
// expiresAt against. Tests supply a fixed instant; production callers pass
// the current time.
type ExpireDueLicensesCommand struct {
	AsOf time.Time
}

// ExpireDueLicensesHandler is the C9 license expiration worker's unit of
// work: a single batched transition of every Active license whose expiry
// has passed into Expired. Invoked on a timer by the asynq periodic task
// registered in internal/infrastructure/jobs/asynq, and safe to invoke
// concurrently from multiple worker processes since the underlying
// repository update is a monotonic, idempotent SQL statement.
type ExpireDueLicensesHandler struct {
	licenses license.Repository
	logger   *zerolog.Logger
}

// NewExpireDueLicensesHandler creates a new ExpireDueLicensesHandler.
func NewExpireDueLicensesHandler(licenses license.Repository, logger *zerolog.Logger) *ExpireDueLicensesHandler {
	return &ExpireDueLicensesHandler{licenses: licenses, logger: logger}
}

// Handle sweeps Active licenses whose expiresAt has passed as of cmd.AsOf
// (defaulting to now if zero) and transitions them to Expired, returning the
// number of licenses updated.
func (h *ExpireDueLicensesHandler) Handle(ctx context.Context, cmd ExpireDueLicensesCommand) (int, error) {
	asOf := cmd.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	count, err := h.licenses.ExpireDue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("expire due licenses: %w", err)
	}

	if count > 0 {
		h.logger.Info().Int("expired", count).Msg("license expiration sweep transitioned licenses")
	} else {
		h.logger.Debug().Msg("license expiration sweep found nothing due")
	}

	return count, nil
}
