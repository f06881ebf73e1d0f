package permission

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OverrideType says how an override changes the role default.
type OverrideType string

const (
	OverrideEnable      OverrideType = "enable"
	OverrideDisable     OverrideType = "disable"
	OverrideChangeScope OverrideType = "change_scope"
)

// Override is a member-specific exception layered over the role default.
// Enable and disable overrides carry Enabled; change_scope carries Scope.
type Override struct {
	ModuleKey string
	ActionKey string
	Type      OverrideType
	Enabled   bool
	Scope     Scope
	Reason    string
	CreatedAt time.Time
	CreatedBy string
}

// Value returns what the override resolves to.
func (o Override) Value() Value {
	if o.Type == OverrideChangeScope {
		return Value{Kind: KindScoped, Enabled: o.Scope != ScopeNone, Scope: o.Scope}
	}
	return Bool(o.Enabled)
}

// Key returns the "module.action" key the override is stored under.
func (o Override) Key() string { return Key(o.ModuleKey, o.ActionKey) }

type overrideJSON struct {
	ModuleKey string          `json:"moduleKey"`
	ActionKey string          `json:"actionKey"`
	Type      OverrideType    `json:"type"`
	Value     json.RawMessage `json:"value"`
	Reason    string          `json:"reason,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}

var ErrOverride = errors.New("permission: invalid override")

func (o Override) MarshalJSON() ([]byte, error) {
	var value any = o.Enabled
	if o.Type == OverrideChangeScope {
		value = o.Scope
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(overrideJSON{
		ModuleKey: o.ModuleKey,
		ActionKey: o.ActionKey,
		Type:      o.Type,
		Value:     raw,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt,
		CreatedBy: o.CreatedBy,
	})
}

// UnmarshalJSON rejects overrides whose value does not match their type.
func (o *Override) UnmarshalJSON(b []byte) error {
	var in overrideJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	out := Override{
		ModuleKey: in.ModuleKey,
		ActionKey: in.ActionKey,
		Type:      in.Type,
		Reason:    in.Reason,
		CreatedAt: in.CreatedAt,
		CreatedBy: in.CreatedBy,
	}
	switch in.Type {
	case OverrideEnable, OverrideDisable:
		if err := json.Unmarshal(in.Value, &out.Enabled); err != nil {
			return fmt.Errorf("%w: %s wants a boolean value", ErrOverride, in.Type)
		}
		if out.Enabled != (in.Type == OverrideEnable) {
			return fmt.Errorf("%w: %s with value %t", ErrOverride, in.Type, out.Enabled)
		}
	case OverrideChangeScope:
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return fmt.Errorf("%w: change_scope wants a scope value", ErrOverride)
		}
		scope, ok := ParseScope(s)
		if !ok {
			return fmt.Errorf("%w: unknown scope %q", ErrOverride, s)
		}
		out.Scope = scope
	default:
		return fmt.Errorf("%w: unknown type %q", ErrOverride, in.Type)
	}

	*o = out
	return nil
}
