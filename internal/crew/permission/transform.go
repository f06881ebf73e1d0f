package permission

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/pkg/slogx"
)

const (
	// SystemActor is recorded as the author of overrides nobody asked for.
	SystemActor = "system"

	// ClientOverrideReason is the audit reason on overrides derived from a
	// client's permission map.
	ClientOverrideReason = "Applied from client permissions"
)

// Transformer turns a simple "module.action" → bool|scope map into
// structured overrides.
type Transformer struct {
	Now    func() time.Time
	Reason string
}

// NewTransformer returns a transformer stamping overrides with the wall clock.
func NewTransformer() *Transformer {
	return &Transformer{Now: time.Now, Reason: ClientOverrideReason}
}

// Transform never fails: malformed entries are logged at warn and dropped.
func (t *Transformer) Transform(ctx context.Context, simple map[string]any, actorID string) map[string]Override {
	log := slogx.FromContext(ctx)

	if actorID == "" {
		actorID = SystemActor
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	createdAt := now().UTC()

	out := make(map[string]Override, len(simple))
	for key, raw := range simple {
		module, action, ok := splitKey(key)
		if !ok {
			log.Warn("dropping permission with malformed key", slog.String("key", key))
			continue
		}

		o := Override{
			ModuleKey: module,
			ActionKey: action,
			Reason:    t.Reason,
			CreatedAt: createdAt,
			CreatedBy: actorID,
		}
		switch v := raw.(type) {
		case bool:
			o.Enabled = v
			o.Type = OverrideDisable
			if v {
				o.Type = OverrideEnable
			}
		case string:
			scope, ok := ParseScope(v)
			if !ok {
				log.Warn("dropping permission with unknown scope", slog.String("key", key), slog.String("value", v))
				continue
			}
			o.Type = OverrideChangeScope
			o.Scope = scope
		default:
			log.Warn("dropping permission with unsupported value", slog.String("key", key), slog.Any("value", raw))
			continue
		}
		out[key] = o
	}
	return out
}

func splitKey(key string) (module, action string, ok bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
