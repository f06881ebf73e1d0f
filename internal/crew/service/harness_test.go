package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/internal/crew/store/drivers/sqlite"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/idx"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	raw   *sqlite.Store
	store store.Store
	now   time.Time

	catalog     *permission.Catalog
	dispatcher  *Dispatcher
	identities  *identity.LocalProvider
	roles       *RoleCache
	invitations *InvitationService
	fanout      *FanoutService
	onboarding  *OnboardingService
	orgs        *OrganizationService
	migration   *MigrationService
	clientPerms *ClientPermissionService
	permissions *PermissionService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, func(s store.Store) store.Store { return s })
}

// newHarnessWith lets a test wrap the store, e.g. to inject faults.
func newHarnessWith(t *testing.T, wrap func(store.Store) store.Store) *harness {
	t.Helper()

	raw, err := sqlite.NewStore(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	require.NoError(t, raw.ApplyMigrations())

	catalog, err := permission.DefaultCatalog()
	require.NoError(t, err)

	h := &harness{raw: raw, store: wrap(raw), now: testNow, catalog: catalog}
	now := func() time.Time { return h.now }
	transformer := &permission.Transformer{Now: now, Reason: permission.ClientOverrideReason}

	h.dispatcher = &Dispatcher{}
	t.Cleanup(h.dispatcher.Wait)
	h.identities = &identity.LocalProvider{Store: h.store, Now: now}
	h.roles = NewRoleCache(h.store, 64, time.Minute)
	h.invitations = &InvitationService{Store: h.store, Now: now}
	h.fanout = &FanoutService{Store: h.store, Now: now}
	h.onboarding = &OnboardingService{
		Store:       h.store,
		Identities:  h.identities,
		Invitations: h.invitations,
		Fanout:      h.fanout,
		Roles:       h.roles,
		Transformer: transformer,
		Dispatcher:  h.dispatcher,
		Now:         now,
	}
	h.orgs = &OrganizationService{Store: h.store, Catalog: catalog, Roles: h.roles, Now: now}
	h.migration = &MigrationService{
		Store: h.store, Catalog: catalog, Transformer: transformer, Roles: h.roles, Now: now,
	}
	h.clientPerms = &ClientPermissionService{Store: h.store, Transformer: transformer, Now: now}
	h.permissions = &PermissionService{Store: h.store, Resolver: permission.NewResolver(catalog)}
	return h
}

func (h *harness) createOrg(t *testing.T, ownerID string) domain.Organization {
	t.Helper()
	org, err := h.orgs.Create(context.Background(), httpx.Principal{Subject: ownerID, Name: "Owner"}, "Acme")
	require.NoError(t, err)
	return org
}

func (h *harness) addMember(t *testing.T, orgID, userID, roleID string, active bool) {
	t.Helper()
	require.NoError(t, h.raw.Members().CreateMember(context.Background(), domain.Member{
		OrganizationID: orgID,
		UserID:         userID,
		Name:           userID,
		RoleID:         roleID,
		IsActive:       active,
		JoinedAt:       h.now,
		UpdatedAt:      h.now,
	}))
}

func (h *harness) addClient(t *testing.T, orgID, clientID string, perms map[string]any) {
	t.Helper()
	require.NoError(t, h.raw.Clients().UpsertClient(context.Background(), domain.Client{
		OrganizationID: orgID, ID: clientID, Name: clientID, Permissions: perms, UpdatedAt: h.now,
	}))
}

func (h *harness) addInvitation(t *testing.T, orgID, code, roleID string, maxUses int, expiresAt time.Time) domain.Invitation {
	t.Helper()
	return h.addClientInvitation(t, orgID, code, roleID, "", maxUses, expiresAt)
}

func (h *harness) addClientInvitation(t *testing.T, orgID, code, roleID, clientID string, maxUses int, expiresAt time.Time) domain.Invitation {
	t.Helper()
	inv := domain.Invitation{
		ID:             idx.New().String(),
		Code:           code,
		OrganizationID: orgID,
		RoleID:         roleID,
		ClientID:       clientID,
		Status:         domain.InvitationActive,
		MaxUses:        maxUses,
		ExpiresAt:      expiresAt,
		CreatedAt:      h.now,
		UpdatedAt:      h.now,
	}
	require.NoError(t, h.raw.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}

func (h *harness) invitation(t *testing.T, id string) domain.Invitation {
	t.Helper()
	inv, err := h.raw.Invitations().GetInvitation(context.Background(), id)
	require.NoError(t, err)
	return inv
}

// faultStore injects failures into selected writes.
type faultStore struct {
	store.Store
	createMemberErr error
	broadcastErr    error
}

func (f *faultStore) Notifications() store.Notifications {
	if f.broadcastErr != nil {
		return failingNotifications{Notifications: f.Store.Notifications(), err: f.broadcastErr}
	}
	return f.Store.Notifications()
}

func (f *faultStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&faultTx{Store: tx, tx: tx, f: f})
	})
}

// faultTx cannot embed store.Tx: its Tx method would clash with the field name.
type faultTx struct {
	store.Store
	tx store.Tx
	f  *faultStore
}

var _ store.Tx = (*faultTx)(nil)

func (t *faultTx) Commit() error   { return t.tx.Commit() }
func (t *faultTx) Rollback() error { return t.tx.Rollback() }

func (t *faultTx) Members() store.Members {
	if t.f.createMemberErr != nil {
		return failingMembers{Members: t.Store.Members(), err: t.f.createMemberErr}
	}
	return t.Store.Members()
}

type failingMembers struct {
	store.Members
	err error
}

func (m failingMembers) CreateMember(context.Context, domain.Member) error { return m.err }

type failingNotifications struct {
	store.Notifications
	err error
}

func (n failingNotifications) CreateBroadcast(context.Context, domain.Notification) error { return n.err }
