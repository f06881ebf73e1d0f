package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type SessionHandler struct {
	Identities *identity.LocalProvider
	Sessions   *identity.Sessions
}

// ServeHTTP godoc
//
//	@Summary		Sign In
//	@Description	Exchanges email and password for a session token usable as a bearer token on every other endpoint.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SessionRequest	true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"invalid credentials"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.Identities.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	token, exp, err := h.Sessions.Issue(id.ID, id.Email, "")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		UserID:      id.ID,
	})
}
