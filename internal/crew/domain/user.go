package domain

import "time"

// Identity is a login known to the local identity provider.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
}

// UserProfile is the user's public profile.
type UserProfile struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
