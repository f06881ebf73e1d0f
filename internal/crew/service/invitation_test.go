package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/errx"
	"github.com/aussiebroadwan/crew/pkg/idx"
)

func TestValidateInvitation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")

	t.Run("usable code, then exhausted after one use", func(t *testing.T) {
		inv := h.addInvitation(t, org.ID, "ABC123", "operator", 1, h.now.Add(time.Hour))

		got, err := h.invitations.Validate(ctx, "ABC123")
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)

		out, err := h.invitations.Consume(ctx, inv.ID, "user-1")
		require.NoError(t, err)
		require.Equal(t, store.Consumed, out)

		_, err = h.invitations.Validate(ctx, "ABC123")
		require.Equal(t, errx.FailedPrecondition, errx.KindOf(err))
		require.ErrorIs(t, err, ErrInvitationExhausted)
		require.Equal(t, "exhausted", errx.ReasonOf(err))
		require.Equal(t, domain.InvitationUsed, h.invitation(t, inv.ID).Status)
	})

	t.Run("exhausted while still active", func(t *testing.T) {
		// Rows written before the status flip existed can be full but active.
		inv := domain.Invitation{
			ID:             idx.New().String(),
			Code:           "FULL0001",
			OrganizationID: org.ID,
			RoleID:         "operator",
			Status:         domain.InvitationActive,
			UsedCount:      2,
			MaxUses:        2,
			ExpiresAt:      h.now.Add(time.Hour),
			CreatedAt:      h.now,
			UpdatedAt:      h.now,
		}
		require.NoError(t, h.raw.Invitations().CreateInvitation(ctx, inv))

		_, err := h.invitations.Validate(ctx, "full0001")
		require.ErrorIs(t, err, ErrInvitationExhausted)
		require.Equal(t, "exhausted", errx.ReasonOf(err))
	})

	t.Run("used below its limit is invalid", func(t *testing.T) {
		inv := domain.Invitation{
			ID:             idx.New().String(),
			Code:           "VOID0001",
			OrganizationID: org.ID,
			RoleID:         "operator",
			Status:         domain.InvitationUsed,
			MaxUses:        2,
			ExpiresAt:      h.now.Add(time.Hour),
			CreatedAt:      h.now,
			UpdatedAt:      h.now,
		}
		require.NoError(t, h.raw.Invitations().CreateInvitation(ctx, inv))

		_, err := h.invitations.Validate(ctx, "VOID0001")
		require.ErrorIs(t, err, ErrInvitationInvalid)
		require.Equal(t, "invalid", errx.ReasonOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		h.addInvitation(t, org.ID, "OLD00001", "operator", 1, h.now.Add(-time.Minute))
		_, err := h.invitations.Validate(ctx, "OLD00001")
		require.ErrorIs(t, err, ErrInvitationExpired)
		require.Equal(t, "expired", errx.ReasonOf(err))
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		inv := h.addInvitation(t, org.ID, "MiXeD234", "operator", 1, h.now.Add(time.Hour))
		got, err := h.invitations.Validate(ctx, "mixed234")
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
	})

	t.Run("missing and unknown codes", func(t *testing.T) {
		_, err := h.invitations.Validate(ctx, "  ")
		require.ErrorIs(t, err, ErrInvalidCode)
		require.Equal(t, errx.InvalidArgument, errx.KindOf(err))

		_, err = h.invitations.Validate(ctx, "NOPE")
		require.ErrorIs(t, err, ErrInvitationNotFound)
		require.Equal(t, errx.NotFound, errx.KindOf(err))
	})
}

func TestConsumeIsIdempotentPerUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	inv := h.addInvitation(t, org.ID, "TWICE001", "operator", 3, h.now.Add(time.Hour))

	out, err := h.invitations.Consume(ctx, inv.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, store.Consumed, out)

	out, err = h.invitations.Consume(ctx, inv.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, store.AlreadyConsumed, out)

	got := h.invitation(t, inv.ID)
	require.Equal(t, 1, got.UsedCount)
	require.Equal(t, []string{"user-1"}, got.UsedBy)
}

func TestConsumeReportsWhyItFailed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")

	inv := h.addInvitation(t, org.ID, "ONCE0001", "operator", 1, h.now.Add(time.Hour))
	_, err := h.invitations.Consume(ctx, inv.ID, "user-1")
	require.NoError(t, err)
	_, err = h.invitations.Consume(ctx, inv.ID, "user-2")
	require.ErrorIs(t, err, ErrInvitationExhausted)

	expired := h.addInvitation(t, org.ID, "LATE0001", "operator", 1, h.now.Add(-time.Hour))
	_, err = h.invitations.Consume(ctx, expired.ID, "user-1")
	require.ErrorIs(t, err, ErrInvitationExpired)

	_, err = h.invitations.Consume(ctx, "missing", "user-1")
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestConsumeConcurrentCallersNeverOverrun(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	inv := h.addInvitation(t, org.ID, "RACE0001", "operator", 2, h.now.Add(time.Hour))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := h.invitations.Consume(ctx, inv.ID, "user-"+string(rune('a'+i)))
			if err == nil && out == store.Consumed {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 2, ok)
	got := h.invitation(t, inv.ID)
	require.Equal(t, 2, got.UsedCount)
	require.Equal(t, domain.InvitationUsed, got.Status)
}

func TestMintInvitation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.addMember(t, org.ID, "operator-1", "operator", true)
	h.addClient(t, org.ID, "client-1", map[string]any{})

	t.Run("defaults", func(t *testing.T) {
		inv, err := h.invitations.Mint(ctx, MintRequest{
			OrganizationID: org.ID, RoleID: "operator", CreatedBy: "owner-1",
		})
		require.NoError(t, err)
		require.Len(t, inv.Code, invitationCodeLength)
		require.Equal(t, 1, inv.MaxUses)
		require.Equal(t, h.now.Add(defaultInvitationTTL), inv.ExpiresAt)

		got, err := h.invitations.Validate(ctx, inv.Code)
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
	})

	t.Run("with client and uses", func(t *testing.T) {
		inv, err := h.invitations.Mint(ctx, MintRequest{
			OrganizationID: org.ID, RoleID: "client", ClientID: "client-1",
			MaxUses: 5, ExpiresAt: h.now.Add(time.Hour), CreatedBy: "owner-1",
		})
		require.NoError(t, err)
		require.Equal(t, 5, inv.MaxUses)
		require.Equal(t, "client-1", inv.ClientID)
	})

	tests := []struct {
		name string
		req  MintRequest
		want error
	}{
		{"not an admin", MintRequest{OrganizationID: org.ID, RoleID: "operator", CreatedBy: "operator-1"}, ErrNotAdmin},
		{"not a member", MintRequest{OrganizationID: org.ID, RoleID: "operator", CreatedBy: "stranger"}, ErrNotMember},
		{"no caller", MintRequest{OrganizationID: org.ID, RoleID: "operator"}, ErrUnauthenticated},
		{"unknown role", MintRequest{OrganizationID: org.ID, RoleID: "ghost", CreatedBy: "owner-1"}, ErrRoleNotFound},
		{"unknown client", MintRequest{OrganizationID: org.ID, RoleID: "client", ClientID: "nope", CreatedBy: "owner-1"}, ErrClientNotFound},
		{"bad max uses", MintRequest{OrganizationID: org.ID, RoleID: "operator", MaxUses: -1, CreatedBy: "owner-1"}, ErrInvalidMaxUses},
		{"past expiry", MintRequest{OrganizationID: org.ID, RoleID: "operator", ExpiresAt: h.now.Add(-time.Hour), CreatedBy: "owner-1"}, ErrInvalidExpiry},
		{"missing role", MintRequest{OrganizationID: org.ID, CreatedBy: "owner-1"}, ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.invitations.Mint(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
