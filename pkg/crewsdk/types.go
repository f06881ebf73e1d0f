package crewsdk

import "time"

type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type Invitation struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	OrganizationID string    `json:"organizationId"`
	RoleID         string    `json:"roleId"`
	ClientID       string    `json:"clientId,omitempty"`
	Status         string    `json:"status"`
	UsedCount      int       `json:"usedCount"`
	MaxUses        int       `json:"maxUses"`
	UsedBy         []string  `json:"usedBy"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MintInvitationRequest describes a new invitation. Zero MaxUses and
// ExpiresAt take the service defaults.
type MintInvitationRequest struct {
	RoleID    string    `json:"roleId"`
	ClientID  string    `json:"clientId,omitempty"`
	MaxUses   int       `json:"maxUses,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// JoinRequest names the invitation being redeemed. InvitationID is the
// invitation's ID, not its code.
type JoinRequest struct {
	InvitationID   string `json:"invitationId"`
	OrganizationID string `json:"organizationId"`
	RoleID         string `json:"roleId"`
	ClientID       string `json:"clientId,omitempty"`
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

type PasswordJoinRequest struct {
	JoinRequest
	Email    string `json:"email"`
	Password string `json:"password"`
}

type JoinResult struct {
	Success        bool       `json:"success"`
	UserID         string     `json:"userId"`
	OrganizationID string     `json:"organizationId"`
	Replayed       bool       `json:"replayed,omitempty"`
	AccessToken    string     `json:"accessToken,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrganizationClient is a customer of an organization with its own permission map.
type OrganizationClient struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	Name           string         `json:"name"`
	Permissions    map[string]any `json:"permissions"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type PermissionValue struct {
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
	Scope   string `json:"scope,omitempty"`
}

type ResolvedPermission struct {
	Module     string          `json:"module"`
	Action     string          `json:"action"`
	Value      PermissionValue `json:"value"`
	Overridden bool            `json:"overridden"`
}

type EffectivePermissions struct {
	OrganizationID string               `json:"organizationId"`
	UserID         string               `json:"userId"`
	RoleID         string               `json:"roleId"`
	Permissions    []ResolvedPermission `json:"permissions"`
}

// Lookup returns the resolved permission for module.action.
func (p *EffectivePermissions) Lookup(module, action string) (ResolvedPermission, bool) {
	for _, r := range p.Permissions {
		if r.Module == module && r.Action == action {
			return r, true
		}
	}
	return ResolvedPermission{}, false
}

type MigrationSummary struct {
	Processed int `json:"processed"`
	Migrated  int `json:"migrated"`
	Skipped   int `json:"skipped"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
}

type MigrationDetail struct {
	OrganizationID string   `json:"organizationId"`
	ID             string   `json:"id"`
	Result         string   `json:"result"`
	Removed        []string `json:"removed,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type MigrationResult struct {
	Success bool              `json:"success"`
	DryRun  bool              `json:"dryRun"`
	Summary MigrationSummary  `json:"summary"`
	Details []MigrationDetail `json:"details"`
}

type ActivationRequest struct {
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Message      string `json:"message,omitempty"`
}

type ActivationResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type sessionResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
}
