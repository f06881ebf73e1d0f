package crewsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service and its dependencies are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// ValidateInvitation looks up an invitation by its shareable code.
func (c *Client) ValidateInvitation(ctx context.Context, code string) (*Invitation, error) {
	var out struct {
		Valid      bool       `json:"valid"`
		Invitation Invitation `json:"invitation"`
	}
	body := map[string]string{"code": code}
	if err := c.call(ctx, http.MethodPost, "/v1/invitations/validate", "", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Invitation, nil
}

// JoinWithPassword creates an email/password identity and joins the
// invitation's organization. The returned Session is signed in as the new
// member; it is nil if the service did not issue a token.
func (c *Client) JoinWithPassword(ctx context.Context, req PasswordJoinRequest) (*Session, *JoinResult, error) {
	var out JoinResult
	if err := c.call(ctx, http.MethodPost, "/v1/onboarding/password", "", req, &out, http.StatusCreated); err != nil {
		return nil, nil, err
	}
	if out.AccessToken == "" {
		return nil, &out, nil
	}
	return newSession(c, out.UserID, out.AccessToken), &out, nil
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/v1/sessions", "", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, out.UserID, out.AccessToken), nil
}

// RequestActivation submits a company activation request.
func (c *Client) RequestActivation(ctx context.Context, req ActivationRequest) (*ActivationResult, error) {
	var out ActivationResult
	if err := c.call(ctx, http.MethodPost, "/v1/activation-requests", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
