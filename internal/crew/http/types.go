package http

import (
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

// HealthResponse is returned by /livez and /readyz.
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

func invitationFrom(inv domain.Invitation) Invitation {
	usedBy := inv.UsedBy
	if usedBy == nil {
		usedBy = []string{}
	}
	return Invitation{
		ID:             inv.ID,
		Code:           inv.Code,
		OrganizationID: inv.OrganizationID,
		RoleID:         inv.RoleID,
		ClientID:       inv.ClientID,
		Status:         string(inv.Status),
		UsedCount:      inv.UsedCount,
		MaxUses:        inv.MaxUses,
		UsedBy:         usedBy,
		CreatedBy:      inv.CreatedBy,
		ExpiresAt:      inv.ExpiresAt,
		CreatedAt:      inv.CreatedAt,
	}
}

type ValidateInvitationRequest struct {
	Code string `json:"code"`
}

type ValidateInvitationResponse struct {
	Valid      bool       `json:"valid"`
	Invitation Invitation `json:"invitation"`
}

type MintInvitationRequest struct {
	RoleID    string    `json:"roleId" validate:"required"`
	ClientID  string    `json:"clientId,omitempty"`
	MaxUses   int       `json:"maxUses,omitempty" validate:"gte=0"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

type JoinRequest struct {
	InvitationID   string `json:"invitationId" validate:"required"`
	OrganizationID string `json:"organizationId" validate:"required"`
	RoleID         string `json:"roleId" validate:"required"`
	ClientID       string `json:"clientId,omitempty"`
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

type PasswordJoinRequest struct {
	JoinRequest
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type JoinResponse struct {
	Success        bool   `json:"success"`
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
	Replayed       bool   `json:"replayed,omitempty"`

	// Set by the password variant so the new user is signed in.
	AccessToken string     `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type RegisterClientRequest struct {
	Name        string         `json:"name" validate:"required"`
	Permissions map[string]any `json:"permissions,omitempty"`
}

type Client struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	Name           string         `json:"name"`
	Permissions    map[string]any `json:"permissions"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type ApplyClientPermissionsRequest struct {
	ClientPermissions map[string]any `json:"clientPermissions" validate:"required"`
}

type ApplyClientPermissionsResponse struct {
	Success      bool `json:"success"`
	UpdatedCount int  `json:"updatedCount"`
}

type MigrationRequest struct {
	DryRun bool `json:"dryRun"`
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

type MigrationResponse struct {
	Success bool              `json:"success"`
	DryRun  bool              `json:"dryRun"`
	Summary MigrationSummary  `json:"summary"`
	Details []MigrationDetail `json:"details"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required"`
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type EffectivePermissionsResponse struct {
	OrganizationID string                `json:"organizationId"`
	UserID         string                `json:"userId"`
	RoleID         string                `json:"roleId"`
	Permissions    []permission.Resolved `json:"permissions"`
}

type ActivationRequest struct {
	CompanyName  string `json:"companyName" validate:"required"`
	ContactName  string `json:"contactName" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Message      string `json:"message,omitempty"`
}

type ActivationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type SessionRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
}
