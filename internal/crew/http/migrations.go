package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type MigrationHandler struct {
	Migration *service.MigrationService
}

// decodeMigration reads an optional {"dryRun": bool} body.
func decodeMigration(r *http.Request) (MigrationRequest, error) {
	var req MigrationRequest
	if r.ContentLength == 0 {
		return req, nil
	}
	return req, httpx.DecodeJSON(r, &req)
}

func migrationResponse(rep service.MigrationReport) MigrationResponse {
	details := make([]MigrationDetail, 0, len(rep.Details))
	for _, d := range rep.Details {
		details = append(details, MigrationDetail(d))
	}
	return MigrationResponse{
		Success: true,
		DryRun:  rep.DryRun,
		Summary: MigrationSummary(rep.Summary),
		Details: details,
	}
}

// HandleClientOverrides godoc
//
//	@Summary		Migrate Client Permission Overrides
//	@Description	Converts member overrides still stored as a raw client map into structured overrides.
//	@Description	Owners and admins only. With dryRun nothing is written.
//	@Tags			Migrations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Organization ID"
//	@Param			request	body		MigrationRequest	false	"Options"
//	@Success		200		{object}	MigrationResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/v1/organizations/{id}/migrations/client-overrides [post].
func (h *MigrationHandler) HandleClientOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	req, err := decodeMigration(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rep, err := h.Migration.MigrateClientOverrides(ctx, caller.Subject, r.PathValue("id"), req.DryRun)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, migrationResponse(rep))
}

// HandleRoles godoc
//
//	@Summary		Migrate Role Permissions
//	@Description	Rewrites every stored system role of the organization to its canonical permission document.
//	@Description	Roles that are not system roles are skipped. Owners and admins only.
//	@Tags			Migrations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Organization ID"
//	@Param			request	body		MigrationRequest	false	"Options"
//	@Success		200		{object}	MigrationResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/v1/organizations/{id}/migrations/roles [post].
func (h *MigrationHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	req, err := decodeMigration(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rep, err := h.Migration.MigrateRoles(ctx, caller.Subject, r.PathValue("id"), req.DryRun)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, migrationResponse(rep))
}
