package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type ClientPermissionsHandler struct {
	ClientPermissions *service.ClientPermissionService
}

// HandleRegister godoc
//
//	@Summary		Register Client
//	@Description	Creates a client of the organization with an initial permission map. Members joining through an invitation bound to the client inherit the map as overrides.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Organization ID"
//	@Param			request	body		RegisterClientRequest	true	"Client"
//	@Success		201		{object}	Client
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Router			/v1/organizations/{id}/clients [post].
func (h *ClientPermissionsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	var req RegisterClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.ClientPermissions.Register(ctx, caller.Subject, r.PathValue("id"), req.Name, req.Permissions)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, Client{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Permissions:    c.Permissions,
		UpdatedAt:      c.UpdatedAt,
	})
}

// HandleApply godoc
//
//	@Summary		Apply Client Permissions
//	@Description	Replaces the client's permission map and rewrites the overrides of every member attached to the client.
//	@Description	Only owners and admins of the organization may apply client permissions.
//	@Description	Keys are "module.action"; values are booleans or one of all, assigned, none.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string							true	"Organization ID"
//	@Param			clientId	path		string							true	"Client ID"
//	@Param			request		body		ApplyClientPermissionsRequest	true	"Client permissions"
//	@Success		200			{object}	ApplyClientPermissionsResponse
//	@Failure		400			{object}	httpx.ErrorResponse	"missing fields or unknown client"
//	@Failure		401			{object}	httpx.ErrorResponse
//	@Failure		403			{object}	httpx.ErrorResponse	"caller is not an owner or admin"
//	@Failure		500			{object}	httpx.ErrorResponse
//	@Router			/v1/organizations/{id}/clients/{clientId}/permissions [put].
func (h *ClientPermissionsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	var req ApplyClientPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	n, err := h.ClientPermissions.Apply(ctx, caller.Subject, r.PathValue("id"), r.PathValue("clientId"), req.ClientPermissions)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ApplyClientPermissionsResponse{Success: true, UpdatedCount: n})
}
