package queries

import (
	"context"
	"errors"
	"fmt"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/domain/license"
)

// GetLicenseQuery retrieves a single license, with its activation history,
// by id.
type GetLicenseQuery struct {
	LicenseID string
}

// GetLicenseHandler processes GetLicenseQuery requests.
type GetLicenseHandler struct {
	licenses license.Repository
}

// NewGetLicenseHandler creates a new GetLicenseHandler.
func NewGetLicenseHandler(licenses license.Repository) *GetLicenseHandler {
	return &GetLicenseHandler{licenses: licenses}
}

// Handle returns the license identified by q.LicenseID.
func (h *GetLicenseHandler) Handle(ctx context.Context, q GetLicenseQuery) (*dto.LicenseDTO, error) {
	id, err := license.ParseLicenseID(q.LicenseID)
	if err != nil {
		return nil, applicense.ErrNotFound
	}

	lic, err := h.licenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, license.ErrLicenseNotFound) {
			return nil, applicense.ErrNotFound
		}
		return nil, fmt.Errorf("find license by id: %w", err)
	}

	out := dto.FromDomain(lic, true)
	return &out, nil
}
