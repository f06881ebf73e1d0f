package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type InvitationHandler struct {
	Invitations *service.InvitationService
}

// HandleValidate godoc
//
//	@Summary		Validate Invitation Code
//	@Description	Looks an invitation up by code, case-insensitively, and reports whether it can still be used.
//	@Description	Unusable invitations fail with 412 and a reason of invalid, expired or exhausted.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ValidateInvitationRequest	true	"Invitation code"
//	@Success		200		{object}	ValidateInvitationResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"code missing"
//	@Failure		404		{object}	httpx.ErrorResponse	"no invitation with this code"
//	@Failure		412		{object}	httpx.ErrorResponse	"invitation not usable"
//	@Router			/v1/invitations/validate [post].
func (h *InvitationHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateInvitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	inv, err := h.Invitations.Validate(r.Context(), req.Code)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ValidateInvitationResponse{Valid: true, Invitation: invitationFrom(inv)})
}

// HandleMint godoc
//
//	@Summary		Mint Invitation
//	@Description	Creates an invitation with a generated eight character code. Owners and admins only.
//	@Description	maxUses defaults to 1 and expiresAt to seven days from now.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Organization ID"
//	@Param			request	body		MintInvitationRequest	true	"Invitation"
//	@Success		201		{object}	Invitation
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"role or client not found"
//	@Router			/v1/organizations/{id}/invitations [post].
func (h *InvitationHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	var req MintInvitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	inv, err := h.Invitations.Mint(ctx, service.MintRequest{
		OrganizationID: r.PathValue("id"),
		RoleID:         req.RoleID,
		ClientID:       req.ClientID,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		CreatedBy:      caller.Subject,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, invitationFrom(inv))
}
