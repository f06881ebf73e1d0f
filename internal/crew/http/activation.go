package http

import (
	"net/http"

	"github.com/aussiebroadwan/crew/internal/crew/service"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

type ActivationHandler struct {
	Activation *service.ActivationService
}

// ServeHTTP godoc
//
//	@Summary		Request Activation
//	@Description	Stores a request to activate a new company. The operator is emailed in the background.
//	@Tags			Activation
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ActivationRequest	true	"Company and contact"
//	@Success		201		{object}	ActivationResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/v1/activation-requests [post].
func (h *ActivationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ActivationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	ar, err := h.Activation.Submit(r.Context(), service.ActivationInput{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Message:      req.Message,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ActivationResponse{Success: true, ID: ar.ID})
}
