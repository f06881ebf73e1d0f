package domain

import (
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

type Member struct {
	OrganizationID     string
	UserID             string
	Name               string
	Email              string
	RoleID             string
	RoleName           string
	RoleColor          string
	ClientID           string // empty when the member is not tied to a client
	Overrides          map[string]permission.Override
	LegacyOverrides    map[string]any // simple map written by older onboarding, nil once migrated
	AssignedPhases     []string
	CanManageAllPhases bool
	IsActive           bool
	JoinedAt           time.Time
	UpdatedAt          time.Time
}

// IsAdmin reports whether the member can administer the organization.
func (m Member) IsAdmin() bool {
	return m.IsActive && (m.RoleID == RoleOwner || m.RoleID == RoleAdmin)
}
