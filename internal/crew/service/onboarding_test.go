package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/errx"
	"github.com/aussiebroadwan/crew/pkg/httpx"
)

func TestJoinWithIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("client member gets client overrides", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		h.addClient(t, org.ID, "client-1", map[string]any{
			"kanban.view":       true,
			"batches.view":      "assigned",
			"chat.viewInternal": false,
		})
		inv := h.addClientInvitation(t, org.ID, "CLIENT01", "client", "client-1", 1, h.now.Add(time.Hour))

		res, err := h.onboarding.JoinWithIdentity(ctx,
			httpx.Principal{Subject: "user-1", Email: "u1@example.com", Name: "Una"},
			JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "client", ClientID: "client-1"},
		)
		require.NoError(t, err)
		require.False(t, res.Replayed)
		require.Equal(t, "Una", res.Name)

		m, err := h.raw.Members().GetMember(ctx, org.ID, "user-1")
		require.NoError(t, err)
		require.Equal(t, "client", m.RoleID)
		require.Equal(t, "client-1", m.ClientID)
		require.False(t, m.CanManageAllPhases)
		require.True(t, m.IsActive)
		require.Len(t, m.Overrides, 3)

		o := m.Overrides["batches.view"]
		require.Equal(t, permission.OverrideChangeScope, o.Type)
		require.Equal(t, permission.ScopeAssigned, o.Scope)
		require.Equal(t, permission.SystemActor, o.CreatedBy)
		require.Equal(t, permission.OverrideDisable, m.Overrides["chat.viewInternal"].Type)

		got := h.invitation(t, inv.ID)
		require.Equal(t, 1, got.UsedCount)
		require.Equal(t, []string{"user-1"}, got.UsedBy)
	})

	t.Run("without client manages all phases", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "OPER0001", "operator", 1, h.now.Add(time.Hour))

		_, err := h.onboarding.JoinWithIdentity(ctx,
			httpx.Principal{Subject: "user-1"},
			JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"},
		)
		require.NoError(t, err)

		m, err := h.raw.Members().GetMember(ctx, org.ID, "user-1")
		require.NoError(t, err)
		require.True(t, m.CanManageAllPhases)
		require.Empty(t, m.Overrides)
		require.Equal(t, fallbackMemberName, m.Name)
	})

	t.Run("retry returns the original result", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "RETRY001", "operator", 5, h.now.Add(time.Hour))
		caller := httpx.Principal{Subject: "user-1", Name: "Una"}
		req := JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"}

		first, err := h.onboarding.JoinWithIdentity(ctx, caller, req)
		require.NoError(t, err)
		second, err := h.onboarding.JoinWithIdentity(ctx, caller, req)
		require.NoError(t, err)

		require.True(t, second.Replayed)
		require.Equal(t, first.UserID, second.UserID)
		require.Equal(t, 1, h.invitation(t, inv.ID).UsedCount)
	})

	t.Run("already a member through another invitation", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "OWNER001", "operator", 1, h.now.Add(time.Hour))

		_, err := h.onboarding.JoinWithIdentity(ctx,
			httpx.Principal{Subject: "owner-1"},
			JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"},
		)
		require.ErrorIs(t, err, ErrAlreadyMember)
		require.Equal(t, errx.AlreadyExists, errx.KindOf(err))
		require.Equal(t, 0, h.invitation(t, inv.ID).UsedCount)
	})
}

func TestJoinRejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	other := h.createOrg(t, "owner-2")
	inv := h.addInvitation(t, org.ID, "GOOD0001", "operator", 1, h.now.Add(time.Hour))
	expired := h.addInvitation(t, org.ID, "GONE0001", "operator", 1, h.now.Add(-time.Hour))
	h.addClient(t, org.ID, "client-1", map[string]any{"kanban.view": true})
	clientInv := h.addClientInvitation(t, org.ID, "CLNT0001", "client", "client-1", 1, h.now.Add(time.Hour))
	ghostClientInv := h.addClientInvitation(t, org.ID, "CLNT0002", "client", "nope", 1, h.now.Add(time.Hour))
	ghostRoleInv := h.addInvitation(t, org.ID, "ROLE0001", "ghost", 1, h.now.Add(time.Hour))
	caller := httpx.Principal{Subject: "user-1"}

	tests := []struct {
		name   string
		caller httpx.Principal
		req    JoinRequest
		want   error
	}{
		{"unauthenticated", httpx.Principal{}, JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"}, ErrUnauthenticated},
		{"missing invitation", caller, JoinRequest{OrganizationID: org.ID, RoleID: "operator"}, ErrMissingFields},
		{"missing role", caller, JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID}, ErrMissingFields},
		{"unknown invitation", caller, JoinRequest{InvitationID: "nope", OrganizationID: org.ID, RoleID: "operator"}, ErrInvitationNotFound},
		{"other organization", caller, JoinRequest{InvitationID: inv.ID, OrganizationID: other.ID, RoleID: "operator"}, ErrInvitationOrganization},
		{"expired", caller, JoinRequest{InvitationID: expired.ID, OrganizationID: org.ID, RoleID: "operator"}, ErrInvitationExpired},
		{"role above the invitation", caller, JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "owner"}, ErrInvitationRole},
		{"client added to an unbound invitation", caller, JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", ClientID: "client-1"}, ErrInvitationClient},
		{"client dropped from a bound invitation", caller, JoinRequest{InvitationID: clientInv.ID, OrganizationID: org.ID, RoleID: "client"}, ErrInvitationClient},
		{"other client", caller, JoinRequest{InvitationID: clientInv.ID, OrganizationID: org.ID, RoleID: "client", ClientID: "client-2"}, ErrInvitationClient},
		{"unknown role", caller, JoinRequest{InvitationID: ghostRoleInv.ID, OrganizationID: org.ID, RoleID: "ghost"}, ErrRoleNotFound},
		{"unknown client", caller, JoinRequest{InvitationID: ghostClientInv.ID, OrganizationID: org.ID, RoleID: "client", ClientID: "nope"}, ErrClientNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.onboarding.JoinWithIdentity(ctx, tt.caller, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	require.Equal(t, 0, h.invitation(t, inv.ID).UsedCount)
	require.Equal(t, 0, h.invitation(t, clientInv.ID).UsedCount)
	_, err := h.raw.Members().GetMember(ctx, org.ID, "user-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestJoinNotifiesActiveMembers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.addMember(t, org.ID, "m-1", "operator", true)
	h.addMember(t, org.ID, "m-2", "operator", true)
	h.addMember(t, org.ID, "m-3", "quality_control", true)
	h.addMember(t, org.ID, "gone", "operator", false)
	inv := h.addInvitation(t, org.ID, "NOTIFY01", "operator", 1, h.now.Add(time.Hour))

	_, err := h.onboarding.JoinWithIdentity(ctx,
		httpx.Principal{Subject: "joiner", Name: "Jo"},
		JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"},
	)
	require.NoError(t, err)
	h.dispatcher.Wait()

	var notificationID string
	for _, uid := range []string{"owner-1", "m-1", "m-2", "m-3"} {
		list, err := h.raw.Notifications().ListUserNotifications(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 1, uid)
		notificationID = list[0].NotificationID
	}
	for _, uid := range []string{"joiner", "gone"} {
		list, err := h.raw.Notifications().ListUserNotifications(ctx, uid)
		require.NoError(t, err)
		require.Empty(t, list, uid)
	}

	n, err := h.raw.Notifications().GetNotification(ctx, notificationID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"owner-1", "m-1", "m-2", "m-3"}, n.DestinationUserIDs)
	require.Equal(t, "Jo joined as Operator", n.Message)
	require.Equal(t, "joiner", n.RelatedEntityID)
	require.Equal(t, h.now.Add(defaultNotificationTTL), n.ExpiresAt)
}

func TestJoinSucceedsWhenFanoutFails(t *testing.T) {
	ctx := context.Background()
	fs := &faultStore{}
	h := newHarnessWith(t, func(s store.Store) store.Store {
		fs.Store = s
		return fs
	})
	org := h.createOrg(t, "owner-1")
	inv := h.addInvitation(t, org.ID, "FANOUT01", "operator", 1, h.now.Add(time.Hour))
	fs.broadcastErr = errors.New("disk full")

	res, err := h.onboarding.JoinWithIdentity(ctx,
		httpx.Principal{Subject: "user-1"},
		JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"},
	)
	require.NoError(t, err)
	require.Equal(t, "user-1", res.UserID)
	h.dispatcher.Wait()

	_, err = h.raw.Members().GetMember(ctx, org.ID, "user-1")
	require.NoError(t, err)
	list, err := h.raw.Notifications().ListUserNotifications(ctx, "owner-1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestJoinWithPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("creates identity and membership", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "PASS0001", "operator", 1, h.now.Add(time.Hour))

		res, err := h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
			JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", Name: " Pat ", Phone: "555"},
			Email:       "pat@example.com",
			Password:    "correct horse",
		})
		require.NoError(t, err)
		require.NotEmpty(t, res.UserID)
		require.Equal(t, "Pat", res.Name)

		id, err := h.identities.Authenticate(ctx, "pat@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, res.UserID, id.ID)

		p, err := h.raw.Profiles().GetProfile(ctx, res.UserID)
		require.NoError(t, err)
		require.Equal(t, "555", p.Phone)
		require.Equal(t, org.ID, p.OrganizationID)
	})

	t.Run("validation failures create no identity", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "PASS0002", "operator", 1, h.now.Add(-time.Hour))

		_, err := h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
			JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", Name: "Pat"},
			Email:       "pat@example.com",
			Password:    "correct horse",
		})
		require.ErrorIs(t, err, ErrInvitationExpired)

		_, err = h.raw.Identities().GetIdentityByEmail(ctx, "pat@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
			JoinRequest: JoinRequest{InvitationID: "i", OrganizationID: "o", RoleID: "operator"},
			Email:       "pat@example.com",
			Password:    "correct horse",
		})
		require.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("failed admission deletes the identity", func(t *testing.T) {
		fs := &faultStore{}
		h := newHarnessWith(t, func(s store.Store) store.Store {
			fs.Store = s
			return fs
		})
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "PASS0003", "operator", 1, h.now.Add(time.Hour))
		fs.createMemberErr = errors.New("write failed")

		_, err := h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
			JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", Name: "Pat"},
			Email:       "pat@example.com",
			Password:    "correct horse",
		})
		require.Error(t, err)
		require.Equal(t, errx.Internal, errx.KindOf(err))

		_, err = h.raw.Identities().GetIdentityByEmail(ctx, "pat@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Equal(t, 0, h.invitation(t, inv.ID).UsedCount)
	})

	t.Run("taken email", func(t *testing.T) {
		h := newHarness(t)
		org := h.createOrg(t, "owner-1")
		inv := h.addInvitation(t, org.ID, "PASS0004", "operator", 2, h.now.Add(time.Hour))
		_, err := h.identities.CreateIdentity(ctx, "pat@example.com", "correct horse")
		require.NoError(t, err)

		_, err = h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
			JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator", Name: "Pat"},
			Email:       "pat@example.com",
			Password:    "correct horse",
		})
		require.Equal(t, errx.AlreadyExists, errx.KindOf(err))
		require.Equal(t, 0, h.invitation(t, inv.ID).UsedCount)
	})
}

func TestJoinCannotEscalateRole(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	inv := h.addInvitation(t, org.ID, "OPER0002", "operator", 2, h.now.Add(time.Hour))

	_, err := h.onboarding.JoinWithPassword(ctx, PasswordJoinRequest{
		JoinRequest: JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "owner", Name: "Mal"},
		Email:       "mal@example.com",
		Password:    "correct horse",
	})
	require.ErrorIs(t, err, ErrInvitationRole)
	require.Equal(t, errx.InvalidArgument, errx.KindOf(err))

	// The role is checked before the identity is created.
	_, err = h.raw.Identities().GetIdentityByEmail(ctx, "mal@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, 0, h.invitation(t, inv.ID).UsedCount)

	// Joining with the granted role gives no admin rights.
	res, err := h.onboarding.JoinWithIdentity(ctx, httpx.Principal{Subject: "mal"},
		JoinRequest{InvitationID: inv.ID, OrganizationID: org.ID, RoleID: "operator"})
	require.NoError(t, err)

	m, err := h.raw.Members().GetMember(ctx, org.ID, res.UserID)
	require.NoError(t, err)
	require.Equal(t, "operator", m.RoleID)
	require.False(t, m.IsAdmin())

	_, err = h.clientPerms.Register(ctx, res.UserID, org.ID, "Shadow Co", nil)
	require.ErrorIs(t, err, ErrNotAdmin)
}
