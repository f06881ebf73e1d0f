package domain

import "time"

const (
	NotificationMemberJoined = "member_joined"

	NotificationStatusActive = "active"
	NotificationPriorityInfo = "info"
)

type Notification struct {
	ID                 string
	OrganizationID     string
	Type               string
	Title              string
	Message            string
	DestinationUserIDs []string
	RelatedEntityType  string
	RelatedEntityID    string
	Status             string
	Priority           string
	CreatedBy          string
	CreatedAt          time.Time
	ExpiresAt          time.Time
}

// UserNotification points one recipient at a Notification.
type UserNotification struct {
	UserID         string
	NotificationID string
	Read           bool
	Resolved       bool
	CreatedAt      time.Time
}
