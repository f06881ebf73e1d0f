package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

// staleRole stores an untagged document with a module the registry dropped.
func (h *harness) staleRole(t *testing.T, orgID, roleID string) {
	t.Helper()
	require.NoError(t, h.raw.Roles().UpsertRole(context.Background(), domain.Role{
		OrganizationID: orgID,
		ID:             roleID,
		Name:           roleID,
		Permissions: permission.Document{Modules: map[string]map[string]any{
			"kanban":    {"view": true},
			"inventory": {"view": true},
		}},
		CreatedAt: h.now,
		UpdatedAt: h.now,
	}))
}

func TestReconcileOrganization(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.staleRole(t, org.ID, "operator")
	h.staleRole(t, org.ID, "custom")

	roleCount := len(h.catalog.Roles())

	dry, err := h.migration.ReconcileOrganization(ctx, org.ID, true)
	require.NoError(t, err)
	require.True(t, dry.DryRun)
	require.Equal(t, MigrationSummary{
		Processed: roleCount, Migrated: 1, Unchanged: roleCount - 1, Skipped: 1,
	}, dry.Summary)

	stored, err := h.raw.Roles().GetRole(ctx, org.ID, "operator")
	require.NoError(t, err)
	require.Equal(t, 0, stored.Permissions.Version, "dry run must not write")

	for _, d := range dry.Details {
		if d.ID == "operator" {
			require.Equal(t, ResultMigrated, d.Result)
			require.Equal(t, []string{"inventory"}, d.Removed)
		}
		if d.ID == "custom" {
			require.Equal(t, ResultSkipped, d.Result)
		}
	}

	applied, err := h.migration.ReconcileOrganization(ctx, org.ID, false)
	require.NoError(t, err)
	require.Equal(t, dry.Summary, applied.Summary)

	stored, err = h.raw.Roles().GetRole(ctx, org.ID, "operator")
	require.NoError(t, err)
	canonical, _ := h.catalog.Expand("operator")
	require.True(t, stored.Permissions.Equal(canonical))

	custom, err := h.raw.Roles().GetRole(ctx, org.ID, "custom")
	require.NoError(t, err)
	require.Contains(t, custom.Permissions.Modules, "inventory", "unknown roles are left alone")

	again, err := h.migration.ReconcileOrganization(ctx, org.ID, false)
	require.NoError(t, err)
	require.Equal(t, 0, again.Summary.Migrated)
	require.Equal(t, roleCount, again.Summary.Unchanged)
}

func TestReconcileInvalidatesCachedRoles(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.staleRole(t, org.ID, "operator")

	before, err := h.roles.Get(ctx, org.ID, "operator")
	require.NoError(t, err)
	require.Equal(t, 0, before.Permissions.Version)

	_, err = h.migration.ReconcileOrganization(ctx, org.ID, false)
	require.NoError(t, err)

	after, err := h.roles.Get(ctx, org.ID, "operator")
	require.NoError(t, err)
	require.Equal(t, permission.SchemaVersion, after.Permissions.Version)
}

func TestReconcileAll(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.migration.Workers = 2

	a := h.createOrg(t, "owner-a")
	b := h.createOrg(t, "owner-b")
	h.staleRole(t, a.ID, "admin")
	h.staleRole(t, b.ID, "client")
	h.staleRole(t, b.ID, "operator")

	report, err := h.migration.ReconcileAll(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 3, report.Summary.Migrated)
	require.Equal(t, 2*len(h.catalog.Roles()), report.Summary.Processed)
	require.Zero(t, report.Summary.Errors)

	orgs := map[string]int{}
	for _, d := range report.Details {
		if d.Result == ResultMigrated {
			orgs[d.OrganizationID]++
		}
	}
	require.Equal(t, map[string]int{a.ID: 1, b.ID: 2}, orgs)
}

func TestMigrateClientOverrides(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.addMember(t, org.ID, "operator-1", "operator", true)
	h.addClient(t, org.ID, "client-1", map[string]any{"kanban.view": true, "batches.view": "assigned"})

	// Written by older onboarding: the client map stored verbatim.
	require.NoError(t, h.raw.Members().CreateMember(ctx, domain.Member{
		OrganizationID:  org.ID,
		UserID:          "legacy",
		RoleID:          "client",
		ClientID:        "client-1",
		LegacyOverrides: map[string]any{"kanban.view": true},
		IsActive:        true,
		JoinedAt:        h.now,
		UpdatedAt:       h.now,
	}))
	// Detached member with a legacy map of its own.
	require.NoError(t, h.raw.Members().CreateMember(ctx, domain.Member{
		OrganizationID:  org.ID,
		UserID:          "orphan",
		RoleID:          "operator",
		LegacyOverrides: map[string]any{"chat.send": false},
		IsActive:        true,
		JoinedAt:        h.now,
		UpdatedAt:       h.now,
	}))

	t.Run("non admins are refused", func(t *testing.T) {
		_, err := h.migration.MigrateClientOverrides(ctx, "operator-1", org.ID, true)
		require.ErrorIs(t, err, ErrNotAdmin)
		_, err = h.migration.MigrateClientOverrides(ctx, "", org.ID, true)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("dry run", func(t *testing.T) {
		report, err := h.migration.MigrateClientOverrides(ctx, "owner-1", org.ID, true)
		require.NoError(t, err)
		require.Equal(t, 2, report.Summary.Migrated)
		require.Equal(t, 2, report.Summary.Skipped)

		m, err := h.raw.Members().GetMember(ctx, org.ID, "legacy")
		require.NoError(t, err)
		require.NotNil(t, m.LegacyOverrides)
	})

	t.Run("apply then rerun", func(t *testing.T) {
		_, err := h.migration.MigrateClientOverrides(ctx, "owner-1", org.ID, false)
		require.NoError(t, err)

		m, err := h.raw.Members().GetMember(ctx, org.ID, "legacy")
		require.NoError(t, err)
		require.Nil(t, m.LegacyOverrides)
		require.Len(t, m.Overrides, 2)
		require.Equal(t, permission.ScopeAssigned, m.Overrides["batches.view"].Scope)

		orphan, err := h.raw.Members().GetMember(ctx, org.ID, "orphan")
		require.NoError(t, err)
		require.Equal(t, permission.OverrideDisable, orphan.Overrides["chat.send"].Type)

		again, err := h.migration.MigrateClientOverrides(ctx, "owner-1", org.ID, false)
		require.NoError(t, err)
		require.Zero(t, again.Summary.Migrated)
		require.Equal(t, 1, again.Summary.Unchanged)
		require.Equal(t, 3, again.Summary.Skipped, "members with nothing left to migrate")
	})
}

func TestMigrateRolesRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	org := h.createOrg(t, "owner-1")
	h.addMember(t, org.ID, "operator-1", "operator", true)
	h.staleRole(t, org.ID, "operator")

	_, err := h.migration.MigrateRoles(ctx, "operator-1", org.ID, false)
	require.ErrorIs(t, err, ErrNotAdmin)
	_, err = h.migration.MigrateRoles(ctx, "", org.ID, false)
	require.ErrorIs(t, err, ErrUnauthenticated)

	report, err := h.migration.MigrateRoles(ctx, "owner-1", org.ID, false)
	require.NoError(t, err)
	require.Equal(t, 1, report.Summary.Migrated)
}
