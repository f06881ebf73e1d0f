package domain

import (
	"strings"
	"time"
)

// InvitationStatus is the stored status. Expired and exhausted are derived.
type InvitationStatus string

const (
	InvitationActive InvitationStatus = "active"
	InvitationUsed   InvitationStatus = "used"
)

// InvitationState is the status as seen at a point in time.
type InvitationState string

const (
	StateActive    InvitationState = "active"
	StateUsed      InvitationState = "used"
	StateExpired   InvitationState = "expired"
	StateExhausted InvitationState = "exhausted"
)

type Invitation struct {
	ID             string
	Code           string
	OrganizationID string
	RoleID         string
	ClientID       string
	Status         InvitationStatus
	UsedCount      int
	MaxUses        int
	UsedBy         []string
	CreatedBy      string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// State evaluates the invitation at now. A stored status other than active
// wins over expiry and expiry over exhaustion, except that an invitation
// whose last use flipped it to used reads as exhausted.
func (i Invitation) State(now time.Time) InvitationState {
	switch {
	case i.Status == InvitationUsed && i.UsedCount >= i.MaxUses:
		return StateExhausted
	case i.Status != InvitationActive:
		return StateUsed
	case now.After(i.ExpiresAt):
		return StateExpired
	case i.UsedCount >= i.MaxUses:
		return StateExhausted
	default:
		return StateActive
	}
}

// NormalizeCode is how codes are compared and stored.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
