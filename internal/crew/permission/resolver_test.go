package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveWithoutOverridesIsRoleDefault(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	r := NewResolver(c)

	for _, role := range c.Roles() {
		for _, m := range c.Registry().Modules() {
			for _, a := range m.Actions {
				require.Equal(t,
					role.Default(m.Key, a.Key, a.Kind),
					r.Effective(role.ID, nil, m.Key, a.Key),
					"%s %s", role.ID, Key(m.Key, a.Key),
				)
			}
		}
	}
}

func TestEffectiveDefaults(t *testing.T) {
	t.Parallel()
	r := NewResolver(mustCatalog(t))

	cases := []struct {
		role, module, action string
		want                 Value
	}{
		{"owner", "organization", "manageSettings", Bool(true)},
		{"admin", "organization", "manageSettings", Bool(false)},
		{"operator", "kanban", "moveProducts", Scoped(ScopeAssigned)},
		{"operator", "batches", "delete", Scoped(ScopeNone)},
		{"client", "reports", "view", Bool(false)},
		{"ghost", "kanban", "view", Bool(false)},
		{"ghost", "kanban", "moveProducts", Zero(KindScoped)},
		{"owner", "nowhere", "nothing", Bool(false)},
	}
	for _, tc := range cases {
		t.Run(tc.role+"/"+Key(tc.module, tc.action), func(t *testing.T) {
			require.Equal(t, tc.want, r.Effective(tc.role, nil, tc.module, tc.action))
		})
	}
}

func TestOverridesWin(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	r := NewResolver(c)

	for _, role := range c.Roles() {
		for _, enabled := range []bool{true, false} {
			typ := OverrideDisable
			if enabled {
				typ = OverrideEnable
			}
			o := map[string]Override{"reports.export": {ModuleKey: "reports", ActionKey: "export", Type: typ, Enabled: enabled}}
			require.Equal(t, Bool(enabled), r.Effective(role.ID, o, "reports", "export"))
		}
		for _, s := range []Scope{ScopeAll, ScopeAssigned, ScopeNone} {
			o := map[string]Override{"batches.view": {ModuleKey: "batches", ActionKey: "view", Type: OverrideChangeScope, Scope: s}}
			got := r.Effective(role.ID, o, "batches", "view")
			require.Equal(t, s, got.Scope)
			require.Equal(t, KindScoped, got.Kind)
		}
	}
}

func TestEffectiveAll(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	r := NewResolver(c)

	overrides := NewTransformer().Transform(context.Background(), map[string]any{"sla.configure": true}, "u1")
	all := r.EffectiveAll("operator", overrides)

	total := 0
	for _, m := range c.Registry().Modules() {
		total += len(m.Actions)
	}
	require.Len(t, all, total)

	for _, res := range all {
		if res.Module == "sla" && res.Action == "configure" {
			require.True(t, res.Overridden)
			require.True(t, res.Value.Enabled)
		} else {
			require.False(t, res.Overridden)
		}
	}
}
