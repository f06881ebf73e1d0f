package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

type OnboardingHandler struct {
	Onboarding *service.OnboardingService
	Sessions   *identity.Sessions
}

func (req JoinRequest) toService() service.JoinRequest {
	return service.JoinRequest{
		InvitationID:   req.InvitationID,
		OrganizationID: req.OrganizationID,
		RoleID:         req.RoleID,
		ClientID:       req.ClientID,
		Name:           req.Name,
		Phone:          req.Phone,
	}
}

// HandlePassword godoc
//
//	@Summary		Create Account And Join
//	@Description	Creates an email/password identity and admits it to the organization through the invitation.
//	@Description	The account is removed again if admission fails. On success a session token is returned.
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PasswordJoinRequest	true	"Account and invitation"
//	@Success		201		{object}	JoinResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"email already registered or already a member"
//	@Failure		412		{object}	httpx.ErrorResponse	"invitation not usable"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/v1/onboarding/password [post].
func (h *OnboardingHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordJoinRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.Onboarding.JoinWithPassword(ctx, service.PasswordJoinRequest{
		JoinRequest: req.toService(),
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	out := JoinResponse{Success: true, UserID: res.UserID, OrganizationID: res.OrganizationID}
	if h.Sessions != nil {
		token, exp, err := h.Sessions.Issue(res.UserID, res.Email, res.Name)
		if err != nil {
			// The member exists; the client can sign in separately.
			slogx.FromContext(ctx).Error("failed to issue session after onboarding", "err", err)
		} else {
			out.AccessToken, out.ExpiresAt = token, &exp
			httpx.NoCache(w)
		}
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// HandleIdentity godoc
//
//	@Summary		Join With Existing Identity
//	@Description	Admits the authenticated caller (session or Google ID token) to the organization.
//	@Description	Retrying a completed admission returns the original result with replayed=true.
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		JoinRequest	true	"Invitation"
//	@Success		200		{object}	JoinResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"already a member"
//	@Failure		412		{object}	httpx.ErrorResponse	"invitation not usable"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/v1/onboarding/identity [post].
func (h *OnboardingHandler) HandleIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := httpx.PrincipalFrom(ctx)

	var req JoinRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.Onboarding.JoinWithIdentity(ctx, caller, req.toService())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, JoinResponse{
		Success:        true,
		UserID:         res.UserID,
		OrganizationID: res.OrganizationID,
		Replayed:       res.Replayed,
	})
}
