package domain

import "time"

// Client is an organization's customer. Permissions is the simple
// "module.action" → bool|scope map applied to members attached to it.
type Client struct {
	OrganizationID string
	ID             string
	Name           string
	Permissions    map[string]any
	UpdatedAt      time.Time
}
