package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type OrganizationHandler struct {
	Organizations *service.OrganizationService
	Permissions   *service.PermissionService
}

// HandleCreate godoc
//
//	@Summary		Create Organization
//	@Description	Creates an organization, seeds the system roles and makes the caller its owner.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateOrganizationRequest	true	"Organization"
//	@Success		201		{object}	Organization
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/v1/organizations [post].
func (h *OrganizationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	var req CreateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	org, err := h.Organizations.Create(ctx, caller, req.Name)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, Organization{
		ID:        org.ID,
		Name:      org.Name,
		OwnerID:   org.OwnerID,
		CreatedAt: org.CreatedAt,
	})
}

// HandleEffectivePermissions godoc
//
//	@Summary		Effective Member Permissions
//	@Description	Resolves every registered action for the member: its override if it has one, otherwise the role default.
//	@Description	The caller must be an active member of the organization.
//	@Tags			Organizations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Organization ID"
//	@Param			userId	path		string	true	"Member user ID"
//	@Success		200		{object}	EffectivePermissionsResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/organizations/{id}/members/{userId}/permissions [get].
func (h *OrganizationHandler) HandleEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	eff, err := h.Permissions.Effective(ctx, caller.Subject, r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{
		OrganizationID: eff.OrganizationID,
		UserID:         eff.UserID,
		RoleID:         eff.RoleID,
		Permissions:    eff.Permissions,
	})
}
