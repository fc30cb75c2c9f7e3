package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	applicense "github.com/yegamble/licensevault/internal/application/license"
	"github.com/yegamble/licensevault/internal/application/license/commands"
	licensedto "github.com/yegamble/licensevault/internal/application/license/dto"
	"github.com/yegamble/licensevault/internal/application/license/queries"
	"github.com/yegamble/licensevault/internal/domain/license"
	"github.com/yegamble/licensevault/internal/interfaces/http/middleware"
)

// LicenseHandler handles license HTTP endpoints: the client-facing
// activation surface and the admin management surface. It delegates to
// application layer command/query handlers for business logic.
type LicenseHandler struct {
	createHandler       *commands.CreateLicenseHandler
	renewHandler        *commands.RenewLicenseHandler
	revokeHandler       *commands.RevokeLicenseHandler
	bulkRevokeHandler   *commands.BulkRevokeLicensesHandler
	activateHandler     *commands.ActivateLicenseHandler
	deactivateHandler   *commands.DeactivateLicenseHandler
	validateHandler     *commands.ValidateLicenseHandler
	getLicenseHandler   *queries.GetLicenseHandler
	listLicensesHandler *queries.ListUserLicensesHandler
	listAuditHandler    *queries.ListAuditLogHandler
	getStatsHandler     *queries.GetStatsHandler
	logger              zerolog.Logger
}

// NewLicenseHandler creates a new LicenseHandler with the given dependencies.
func NewLicenseHandler(
	createHandler *commands.CreateLicenseHandler,
	renewHandler *commands.RenewLicenseHandler,
	revokeHandler *commands.RevokeLicenseHandler,
	bulkRevokeHandler *commands.BulkRevokeLicensesHandler,
	activateHandler *commands.ActivateLicenseHandler,
	deactivateHandler *commands.DeactivateLicenseHandler,
	validateHandler *commands.ValidateLicenseHandler,
	getLicenseHandler *queries.GetLicenseHandler,
	listLicensesHandler *queries.ListUserLicensesHandler,
	listAuditHandler *queries.ListAuditLogHandler,
	getStatsHandler *queries.GetStatsHandler,
	logger zerolog.Logger,
) *LicenseHandler {
	return &LicenseHandler{
		createHandler:       createHandler,
		renewHandler:        renewHandler,
		revokeHandler:       revokeHandler,
		bulkRevokeHandler:   bulkRevokeHandler,
		activateHandler:     activateHandler,
		deactivateHandler:   deactivateHandler,
		validateHandler:     validateHandler,
		getLicenseHandler:   getLicenseHandler,
		listLicensesHandler: listLicensesHandler,
		listAuditHandler:    listAuditHandler,
		getStatsHandler:     getStatsHandler,
		logger:              logger,
	}
}

// Routes registers license routes with the chi router.
// Returns a chi.Router that can be mounted under /api/v1/licenses.
//
// All routes require JWT authentication (applied by the parent router);
// requireAdmin additionally guards the management surface. The activation
// surface (activate/validate/deactivate/heartbeat) is open to any
// authenticated caller: client applications hold a user session plus a
// license key, not an admin role.
//
//nolint:ireturn // Returning chi.Router interface is chi's standard pattern for sub-routers
func (h *LicenseHandler) Routes(requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Client activation surface.
	r.Post("/activate", h.Activate)
	r.Post("/validate", h.Validate)
	r.Post("/deactivate", h.Deactivate)
	r.Post("/heartbeat", h.Heartbeat)

	// Read surface: own licenses, or any license for admins.
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetLicense)

	// Management surface (admin only).
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/", h.CreateLicense)
		r.Patch("/{id}", h.RenewLicense)
		r.Delete("/{id}", h.RevokeLicense)
		r.Post("/bulk-revoke", h.BulkRevoke)
	})

	return r
}

// CreateLicense handles POST /api/v1/licenses
// Issues a new license for a user (admin operation).
//
// Request: CreateLicenseDTO JSON body
// Response: 201 Created with LicenseDTO
// Errors:
//   - 400: Invalid request body or expiry not in the future
//   - 409: User already holds an Active license (policy switch on)
//   - 500: Internal server error
func (h *LicenseHandler) CreateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.CreateLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid create-license request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid license data",
			validationErrors,
		)
		return
	}

	licDTO, err := h.createHandler.Handle(ctx, commands.CreateLicenseCommand{
		UserID:         req.UserID,
		ExpiresAt:      req.ExpiresAt,
		MaxActivations: req.MaxActivations,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "create license")
		return
	}

	h.logger.Info().
		Str("license_id", licDTO.ID).
		Str("user_id", licDTO.UserID).
		Msg("license issued")

	if err := EncodeJSON(w, http.StatusCreated, licDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode create-license response")
	}
}

// GetLicense handles GET /api/v1/licenses/{id}
// Returns a license with its activation history. Owners see their own
// licenses; admins see any.
//
// Response: 200 OK with LicenseDTO
// Errors:
//   - 400: Invalid license ID
//   - 403: Not the owner and not an admin
//   - 404: License not found
func (h *LicenseHandler) GetLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	licenseID, err := GetPathParamUUID(r, "id")
	if err != nil {
		h.logger.Debug().Err(err).Msg("invalid license id in path")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid license ID format")
		return
	}

	userCtx := MustGetUserFromContext(ctx)

	licDTO, err := h.getLicenseHandler.Handle(ctx, queries.GetLicenseQuery{LicenseID: licenseID.String()})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "get license")
		return
	}

	if licDTO.UserID != userCtx.UserID.String() && userCtx.Role != "admin" {
		middleware.WriteError(w, r,
			http.StatusForbidden,
			"Forbidden",
			"You do not have permission to view this license",
		)
		return
	}

	if err := EncodeJSON(w, http.StatusOK, licDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode get-license response")
	}
}

// ListMine handles GET /api/v1/licenses
// Returns every license owned by the authenticated caller.
//
// Response: 200 OK with []LicenseDTO
func (h *LicenseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCtx := MustGetUserFromContext(ctx)

	licenses, err := h.listLicensesHandler.Handle(ctx, queries.ListUserLicensesQuery{UserID: userCtx.UserID.String()})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "list own licenses")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, licenses); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode list-licenses response")
	}
}

// ListForUser handles GET /api/v1/users/{id}/licenses (admin).
//
// Response: 200 OK with []LicenseDTO
// Errors:
//   - 400: Invalid user ID
func (h *LicenseHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := GetPathParamUUID(r, "id")
	if err != nil {
		h.logger.Debug().Err(err).Msg("invalid user id in path")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid user ID format")
		return
	}

	licenses, err := h.listLicensesHandler.Handle(ctx, queries.ListUserLicensesQuery{UserID: userID.String()})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "list user licenses")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, licenses); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode user-licenses response")
	}
}

// RenewLicense handles PATCH /api/v1/licenses/{id}
// Moves an Expired (or still-Active) license to a later expiry. Renewing a
// Revoked license is forbidden.
//
// Request: RenewLicenseDTO JSON body
// Response: 200 OK with LicenseDTO
// Errors:
//   - 400: Invalid body or expiry not in the future
//   - 404: License not found
//   - 409: License is Revoked
func (h *LicenseHandler) RenewLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	licenseID, err := GetPathParamUUID(r, "id")
	if err != nil {
		h.logger.Debug().Err(err).Msg("invalid license id in path")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid license ID format")
		return
	}

	var req licensedto.RenewLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid renew-license request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "A new expiry timestamp is required")
		return
	}

	licDTO, err := h.renewHandler.Handle(ctx, commands.RenewLicenseCommand{
		LicenseID:    licenseID.String(),
		NewExpiresAt: req.NewExpiresAt,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "renew license")
		return
	}

	h.logger.Info().Str("license_id", licDTO.ID).Msg("license renewed")

	if err := EncodeJSON(w, http.StatusOK, licDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode renew-license response")
	}
}

// RevokeLicense handles DELETE /api/v1/licenses/{id}
// Moves a license to the terminal Revoked status. Idempotent.
//
// Request: optional RevokeLicenseDTO JSON body carrying a reason
// Response: 200 OK with LicenseDTO
// Errors:
//   - 400: Invalid license ID
//   - 404: License not found
func (h *LicenseHandler) RevokeLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	licenseID, err := GetPathParamUUID(r, "id")
	if err != nil {
		h.logger.Debug().Err(err).Msg("invalid license id in path")
		middleware.WriteError(w, r, http.StatusBadRequest, "Bad Request", "Invalid license ID format")
		return
	}

	var req licensedto.RevokeLicenseDTO
	_ = DecodeJSONBody(r, &req) // body is optional

	licDTO, err := h.revokeHandler.Handle(ctx, commands.RevokeLicenseCommand{
		LicenseID: licenseID.String(),
		Reason:    req.Reason,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "revoke license")
		return
	}

	h.logger.Info().Str("license_id", licDTO.ID).Msg("license revoked")

	if err := EncodeJSON(w, http.StatusOK, licDTO); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode revoke-license response")
	}
}

// BulkRevoke handles POST /api/v1/licenses/bulk-revoke
// Revokes a batch of licenses in one administrative action. Individual
// failures are collected, not fatal.
//
// Request: BulkRevokeLicensesDTO JSON body
// Response: 200 OK with BulkRevokeResultDTO
// Errors:
//   - 400: Invalid request body
func (h *LicenseHandler) BulkRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.BulkRevokeLicensesDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid bulk-revoke request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid bulk revoke data",
			validationErrors,
		)
		return
	}

	result, err := h.bulkRevokeHandler.Handle(ctx, commands.BulkRevokeLicensesCommand{
		LicenseIDs: req.LicenseIDs,
		Reason:     req.Reason,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "bulk revoke licenses")
		return
	}

	h.logger.Info().
		Int("revoked", result.Revoked).
		Int("failed", len(result.Failed)).
		Msg("bulk license revoke completed")

	if err := EncodeJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode bulk-revoke response")
	}
}

// Activate handles POST /api/v1/licenses/activate
// Claims an activation slot for a device, or heartbeats an existing one.
//
// Request: ActivateLicenseDTO JSON body
// Response: 200 OK with ActivationDTO
// Errors:
//   - 400: Invalid body, license not active/expired, or activation cap reached
//   - 404: Unknown license key
func (h *LicenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.ActivateLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid activate-license request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid activation data",
			validationErrors,
		)
		return
	}

	ip := GetClientIP(r)
	if req.IPAddress == nil {
		req.IPAddress = &ip
	}

	activation, err := h.activateHandler.Handle(ctx, commands.ActivateLicenseCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
		Hostname:    req.Hostname,
		IPAddress:   req.IPAddress,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "activate license")
		return
	}

	h.logger.Info().
		Str("activation_id", activation.ID).
		Msg("license activation recorded")

	if err := EncodeJSON(w, http.StatusOK, activation); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode activate response")
	}
}

// Validate handles POST /api/v1/licenses/validate
// Returns the validation verdict for a license+device pair. A negative
// verdict is a 200 with valid=false, never an error status: client
// applications poll this endpoint and need the reason, not a failure.
//
// Request: ValidateLicenseDTO JSON body
// Response: 200 OK with ValidationResultDTO
// Errors:
//   - 400: Invalid request body
//   - 404: Unknown license key
func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.ValidateLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid validate-license request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid validation data",
			validationErrors,
		)
		return
	}

	result, err := h.validateHandler.Handle(ctx, commands.ValidateLicenseCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
	})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "validate license")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode validate response")
	}
}

// Deactivate handles POST /api/v1/licenses/deactivate
// Releases the device's activation slot. A no-op when no live activation
// matches.
//
// Request: DeactivateLicenseDTO JSON body
// Response: 204 No Content
// Errors:
//   - 400: Invalid request body
//   - 404: Unknown license key
func (h *LicenseHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.DeactivateLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid deactivate-license request")
		validationErrors := FormatValidationErrors(err)
		middleware.WriteErrorWithExtensions(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"Invalid deactivation data",
			validationErrors,
		)
		return
	}

	if err := h.deactivateHandler.Handle(ctx, commands.DeactivateLicenseCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
	}); err != nil {
		h.mapErrorAndRespond(w, r, err, "deactivate license")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Heartbeat handles POST /api/v1/licenses/heartbeat
// Bumps lastSeenAt for the device's activation without returning a verdict.
//
// Request: ValidateLicenseDTO JSON body
// Response: 204 No Content
// Errors:
//   - 400: Invalid request body
//   - 404: Unknown license key
func (h *LicenseHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req licensedto.ValidateLicenseDTO
	if err := DecodeJSON(r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid heartbeat request")
		middleware.WriteError(w, r, http.StatusBadRequest, "Validation Failed", "A license key and fingerprint are required")
		return
	}

	if _, err := h.validateHandler.Handle(ctx, commands.ValidateLicenseCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
	}); err != nil {
		h.mapErrorAndRespond(w, r, err, "license heartbeat")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAuditLog handles GET /api/v1/audit (admin).
// Returns the most recent audit entries, newest first.
//
// Query parameters: limit (default 50, max 200), offset (default 0)
// Response: 200 OK with []AuditEntryDTO
func (h *LicenseHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.listAuditHandler.Handle(ctx, queries.ListAuditLogQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "list audit log")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode audit-log response")
	}
}

// Stats handles GET /api/v1/stats (admin).
// Returns the dashboard aggregate counters.
//
// Response: 200 OK with StatsDTO
func (h *LicenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.getStatsHandler.Handle(ctx)
	if err != nil {
		h.mapErrorAndRespond(w, r, err, "read stats")
		return
	}

	if err := EncodeJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode stats response")
	}
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// mapErrorAndRespond maps application/domain errors to HTTP responses using
// RFC 7807 Problem Details, mirroring the auth and user handlers.
func (h *LicenseHandler) mapErrorAndRespond(w http.ResponseWriter, r *http.Request, err error, operation string) {
	h.logger.Error().
		Err(err).
		Str("operation", operation).
		Msg("license operation failed")

	switch {
	case errors.Is(err, applicense.ErrNotFound), errors.Is(err, license.ErrLicenseNotFound):
		middleware.WriteError(w, r,
			http.StatusNotFound,
			"Not Found",
			"License not found",
		)

	case errors.Is(err, applicense.ErrActivationLimitReached), errors.Is(err, license.ErrActivationLimitReached):
		middleware.WriteError(w, r,
			http.StatusBadRequest,
			"Activation Limit Reached",
			"This license has no free activation slots. Deactivate another device first.",
		)

	case errors.Is(err, applicense.ErrLicenseNotActive),
		errors.Is(err, license.ErrLicenseNotActive),
		errors.Is(err, license.ErrLicenseExpired):
		middleware.WriteError(w, r,
			http.StatusBadRequest,
			"License Not Active",
			"This license is not active",
		)

	case errors.Is(err, applicense.ErrInvalidExpiry), errors.Is(err, license.ErrInvalidExpiry):
		middleware.WriteError(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			"The expiry timestamp must be in the future",
		)

	case errors.Is(err, applicense.ErrInvalidStatusTransition), errors.Is(err, license.ErrInvalidStatusTransition):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"This status change is not allowed",
		)

	case errors.Is(err, applicense.ErrConflict):
		middleware.WriteError(w, r,
			http.StatusConflict,
			"Conflict",
			"This user already holds an active license",
		)

	case errors.Is(err, applicense.ErrForbidden):
		middleware.WriteError(w, r,
			http.StatusForbidden,
			"Forbidden",
			"You do not have permission to perform this action",
		)

	case errors.Is(err, license.ErrFingerprintEmpty), errors.Is(err, license.ErrLicenseKeyInvalid):
		middleware.WriteError(w, r,
			http.StatusBadRequest,
			"Validation Failed",
			err.Error(),
		)

	default:
		middleware.WriteError(w, r,
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred. Please try again later.",
		)
	}
}
