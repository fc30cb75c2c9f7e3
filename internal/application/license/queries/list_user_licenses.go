package queries

import (
	"context"
	"fmt"

	"github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// ListUserLicensesQuery retrieves every license owned by a user.
type ListUserLicensesQuery struct {
	UserID string
}

// ListUserLicensesHandler processes ListUserLicensesQuery requests.
type ListUserLicensesHandler struct {
	licenses license.Repository
}

// NewListUserLicensesHandler creates a new ListUserLicensesHandler.
func NewListUserLicensesHandler(licenses license.Repository) *ListUserLicensesHandler {
	return &ListUserLicensesHandler{licenses: licenses}
}

// Handle returns every license owned by q.UserID, newest first.
func (h *ListUserLicensesHandler) Handle(ctx context.Context, q ListUserLicensesQuery) ([]dto.LicenseDTO, error) {
	licenses, err := h.licenses.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list licenses for user: %w", err)
	}

	out := make([]dto.LicenseDTO, len(licenses))
	for i, lic := range licenses {
		out[i] = dto.FromDomain(lic, false)
	}
	return out, nil
}
