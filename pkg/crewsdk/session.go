package crewsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session performs operations as one signed-in caller.
type Session struct {
	client      *Client
	userID      string
	accessToken string
}

func newSession(c *Client, userID, token string) *Session {
	return &Session{client: c, userID: userID, accessToken: token}
}

// UserID is the caller's user ID, when the service reported one.
func (s *Session) UserID() string { return s.userID }

// AccessToken returns the bearer token.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) call(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	return s.client.call(ctx, method, path, s.accessToken, body, target, expectedStatus)
}

// CreateOrganization creates an organization owned by the caller and seeds
// its system roles.
func (s *Session) CreateOrganization(ctx context.Context, name string) (*Organization, error) {
	var out Organization
	body := map[string]string{"name": name}
	if err := s.call(ctx, http.MethodPost, "/v1/organizations", body, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// MintInvitation creates an invitation. The caller must be an admin.
func (s *Session) MintInvitation(ctx context.Context, organizationID string, req MintInvitationRequest) (*Invitation, error) {
	var out Invitation
	path := "/v1/organizations/" + url.PathEscape(organizationID) + "/invitations"
	if err := s.call(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinWithIdentity joins an organization as the already signed-in caller.
func (s *Session) JoinWithIdentity(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	var out JoinResult
	if err := s.call(ctx, http.MethodPost, "/v1/onboarding/identity", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// EffectivePermissions reads a member's resolved permissions.
func (s *Session) EffectivePermissions(ctx context.Context, organizationID, userID string) (*EffectivePermissions, error) {
	var out EffectivePermissions
	path := "/v1/organizations/" + url.PathEscape(organizationID) + "/members/" + url.PathEscape(userID) + "/permissions"
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterClient creates a client with an initial permission map.
func (s *Session) RegisterClient(ctx context.Context, organizationID, name string, perms map[string]any) (*OrganizationClient, error) {
	var out OrganizationClient
	path := "/v1/organizations/" + url.PathEscape(organizationID) + "/clients"
	body := map[string]any{"name": name, "permissions": perms}
	if err := s.call(ctx, http.MethodPost, path, body, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyClientPermissions rewrites the overrides of every member linked to
// the client and reports how many were updated.
func (s *Session) ApplyClientPermissions(ctx context.Context, organizationID, clientID string, perms map[string]any) (int, error) {
	var out struct {
		UpdatedCount int `json:"updatedCount"`
	}
	path := "/v1/organizations/" + url.PathEscape(organizationID) + "/clients/" + url.PathEscape(clientID) + "/permissions"
	body := map[string]any{"clientPermissions": perms}
	if err := s.call(ctx, http.MethodPut, path, body, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.UpdatedCount, nil
}

// MigrateClientOverrides converts legacy member overrides.
func (s *Session) MigrateClientOverrides(ctx context.Context, organizationID string, dryRun bool) (*MigrationResult, error) {
	return s.migrate(ctx, organizationID, "client-overrides", dryRun)
}

// MigrateRoles reconciles the organization's role documents with the catalog.
func (s *Session) MigrateRoles(ctx context.Context, organizationID string, dryRun bool) (*MigrationResult, error) {
	return s.migrate(ctx, organizationID, "roles", dryRun)
}

func (s *Session) migrate(ctx context.Context, organizationID, kind string, dryRun bool) (*MigrationResult, error) {
	var out MigrationResult
	path := "/v1/organizations/" + url.PathEscape(organizationID) + "/migrations/" + kind
	body := map[string]bool{"dryRun": dryRun}
	if err := s.call(ctx, http.MethodPost, path, body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
