package domain

import (
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

// Role is an organization's stored copy of a role definition.
type Role struct {
	OrganizationID string
	ID             string
	Name           string
	Color          string
	Permissions    permission.Document
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role ids with organization-wide admin rights.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)
