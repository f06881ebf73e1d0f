package permission

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// SchemaVersion is the permission document layout produced by Expand.
// Version 0 is the untagged legacy layout.
const SchemaVersion = 2

// Document is a role's stored permission assignment. Modules map
// action → bool, and every scoped action also has an "<action>Scope"
// string companion.
type Document struct {
	Version int                       `json:"version"`
	Modules map[string]map[string]any `json:"modules"`
}

// DecodeDocument reads a stored document. Untagged legacy documents (the
// module map itself) come back with Version 0.
func DecodeDocument(b []byte) (Document, error) {
	if len(b) == 0 {
		return Document{Modules: map[string]map[string]any{}}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return Document{}, fmt.Errorf("permission: decode document: %w", err)
	}
	_, hasVersion := probe["version"]
	_, hasModules := probe["modules"]
	if hasVersion && hasModules {
		var d Document
		if err := json.Unmarshal(b, &d); err != nil {
			return Document{}, fmt.Errorf("permission: decode document: %w", err)
		}
		if d.Modules == nil {
			d.Modules = map[string]map[string]any{}
		}
		return d, nil
	}

	// Legacy: anything that is not an object of fields is not a module.
	d := Document{Modules: make(map[string]map[string]any, len(probe))}
	for key, raw := range probe {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			d.Modules[key] = nil
			continue
		}
		d.Modules[key] = fields
	}
	return d, nil
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := Document{Version: d.Version, Modules: make(map[string]map[string]any, len(d.Modules))}
	for k, v := range d.Modules {
		if v == nil {
			out.Modules[k] = nil
			continue
		}
		out.Modules[k] = maps.Clone(v)
	}
	return out
}

// Equal compares two documents field by field.
func (d Document) Equal(o Document) bool {
	return d.Version == o.Version && reflect.DeepEqual(d.Modules, o.Modules)
}

// Expand builds the canonical document for roleID. Unknown roles get every
// action off; known reports which case applied.
func (c *Catalog) Expand(roleID string) (doc Document, known bool) {
	role, known := c.Role(roleID)

	doc = Document{Version: SchemaVersion, Modules: make(map[string]map[string]any, len(c.registry.modules))}
	for _, m := range c.registry.modules {
		fields := make(map[string]any, len(m.Actions)*2)
		for _, a := range m.Actions {
			v := Zero(a.Kind)
			if known {
				v = role.Default(m.Key, a.Key, a.Kind)
			}
			fields[a.Key] = v.Enabled
			if a.Kind == KindScoped {
				fields[scopeField(a.Key)] = string(v.Scope)
			}
		}
		doc.Modules[m.Key] = fields
	}
	return doc, known
}

// ReconcileResult is the outcome of one reconciliation.
type ReconcileResult struct {
	// Canonical replaces the stored document when applied.
	Canonical Document
	// Cleaned is the stored document minus keys the registry no longer has.
	Cleaned Document
	// Removed lists dropped keys as "module" or "module.field", sorted.
	Removed []string
	// Changed reports whether applying Canonical would alter the document.
	Changed bool
	// Known is false when roleID is not a catalog role.
	Known bool
}

// Reconcile brings existing in line with the registry for roleID. Applying
// the result replaces the stored permissions with Canonical, so manual
// edits to role documents do not survive.
func (c *Catalog) Reconcile(existing Document, roleID string) ReconcileResult {
	canonical, known := c.Expand(roleID)
	cleaned, removed := c.clean(existing)

	return ReconcileResult{
		Canonical: canonical,
		Cleaned:   cleaned,
		Removed:   removed,
		Changed:   !existing.Equal(canonical),
		Known:     known,
	}
}

// clean drops unregistered modules and actions together with their scope
// companions. Scope companions whose action is registered stay.
func (c *Catalog) clean(existing Document) (Document, []string) {
	cleaned := existing.Clone()
	var removed []string

	for module, fields := range cleaned.Modules {
		if !c.registry.HasModule(module) {
			delete(cleaned.Modules, module)
			removed = append(removed, module)
			continue
		}
		for field := range fields {
			action := field
			if base, ok := strings.CutSuffix(field, "Scope"); ok {
				if _, registered := c.registry.Kind(module, field); !registered {
					action = base
				}
			}
			if _, ok := c.registry.Kind(module, action); !ok {
				delete(fields, field)
				removed = append(removed, Key(module, field))
			}
		}
	}

	slices.Sort(removed)
	return cleaned, removed
}
