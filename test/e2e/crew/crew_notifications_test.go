package crew_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/realtime"
	"github.com/aussiebroadwan/crew/pkg/crewsdk"
)

// TestJoinNotificationIsPublished subscribes to the organization's channel
// and expects the owner to be told about a new member.
func TestJoinNotificationIsPublished(t *testing.T) {
	s := setupCrewWithRedis(t)
	client := crewsdk.NewClient(s.BaseURL)
	ctx := t.Context()

	owner, org := createOrganization(t, client, "owner-1")

	rdb := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
	t.Cleanup(func() { _ = rdb.Close() })

	sub := rdb.Subscribe(ctx, realtime.Channel(org.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	inv, err := owner.MintInvitation(ctx, org.ID, crewsdk.MintInvitationRequest{RoleID: "operator"})
	require.NoError(t, err)

	_, result, err := client.JoinWithPassword(ctx, crewsdk.PasswordJoinRequest{
		JoinRequest: crewsdk.JoinRequest{
			InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", Name: "Jo",
		},
		Email:    "jo@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var ev realtime.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		require.Equal(t, org.ID, ev.OrganizationID)
		require.Equal(t, "Jo joined as Operator", ev.Message)
		require.Equal(t, []string{"owner-1"}, ev.DestinationUserIDs)
		require.NotContains(t, ev.DestinationUserIDs, result.UserID)
	case <-time.After(10 * time.Second):
		t.Fatal("no notification published")
	}
}

// TestActivationRequest verifies the public activation form is accepted
// without an SMTP relay configured.
func TestActivationRequest(t *testing.T) {
	s := setupCrewContainer(t)
	client := crewsdk.NewClient(s.BaseURL)

	res, err := client.RequestActivation(t.Context(), crewsdk.ActivationRequest{
		CompanyName:  "Acme Print",
		ContactName:  "Sam",
		ContactEmail: "sam@example.com",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.ID)

	_, err = client.RequestActivation(t.Context(), crewsdk.ActivationRequest{CompanyName: "Acme Print"})
	assertKind(t, err, crewsdk.KindInvalidArgument)
}
