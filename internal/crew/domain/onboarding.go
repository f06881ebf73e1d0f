package domain

import (
	"time"

	"github.com/google/uuid"
)

// onboardingNamespace scopes onboarding idempotency keys.
var onboardingNamespace = uuid.MustParse("6f1c0f5e-3d4b-4d8e-9a57-2f0b8c1e7a42")

// OnboardingKey is the idempotency key of one (organization, invitation,
// user) admission. It is stable across retries.
func OnboardingKey(organizationID, invitationID, userID string) string {
	return uuid.NewSHA1(onboardingNamespace, []byte(organizationID+"|"+invitationID+"|"+userID)).String()
}

// OnboardingReceipt records a completed admission.
type OnboardingReceipt struct {
	Key            string
	OrganizationID string
	InvitationID   string
	UserID         string
	CreatedAt      time.Time
}
