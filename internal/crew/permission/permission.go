// Package permission holds the permission engine: the action registry, the
// per-role default matrix, override resolution and permission document
// reconciliation. Everything here is pure and safe for concurrent reads once
// a Catalog is built.
package permission

import "fmt"

// ValueKind is the shape of an action's value.
type ValueKind string

const (
	KindBoolean ValueKind = "boolean"
	KindScoped  ValueKind = "scoped"
)

// Scope restricts a scoped action to resources the member owns or is
// assigned to.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeAssigned Scope = "assigned"
	ScopeNone     Scope = "none"
)

// ParseScope accepts exactly "all", "assigned" or "none".
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeAll, ScopeAssigned, ScopeNone:
		return Scope(s), true
	}
	return "", false
}

// Value is a resolved permission. Scope is only meaningful for KindScoped.
type Value struct {
	Kind    ValueKind `json:"kind"`
	Enabled bool      `json:"enabled"`
	Scope   Scope     `json:"scope,omitempty"`
}

// Zero returns the value granted when nothing else applies.
func Zero(kind ValueKind) Value {
	if kind == KindScoped {
		return Value{Kind: KindScoped, Scope: ScopeNone}
	}
	return Value{Kind: KindBoolean}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Enabled: b} }

// Scoped returns a scoped value that is enabled.
func Scoped(s Scope) Value { return Value{Kind: KindScoped, Enabled: true, Scope: s} }

func (v Value) String() string {
	if v.Kind == KindScoped {
		return fmt.Sprintf("%t/%s", v.Enabled, v.Scope)
	}
	return fmt.Sprintf("%t", v.Enabled)
}

// Key joins a module and action into the "module.action" override key.
func Key(module, action string) string { return module + "." + action }

// scopeField names the companion field a scoped action carries in a
// permission document.
func scopeField(action string) string { return action + "Scope" }
