package domain

import "time"

type ActivationRequest struct {
	ID               string
	CompanyName      string
	ContactName      string
	ContactEmail     string
	ContactPhone     string
	Message          string
	NotificationSent bool
	CreatedAt        time.Time
}
