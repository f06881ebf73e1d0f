package permission

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Action is one registry entry within a module.
type Action struct {
	Key  string    `yaml:"key" json:"key"`
	Kind ValueKind `yaml:"kind" json:"kind"`
}

// Module groups the actions of one product area.
type Module struct {
	Key     string   `yaml:"key" json:"key"`
	Actions []Action `yaml:"actions" json:"actions"`
}

// Registry is the immutable action schema. Module and action order follow
// the catalog file.
type Registry struct {
	modules []Module
	kinds   map[string]map[string]ValueKind
}

// Modules returns the registry modules in catalog order.
func (r *Registry) Modules() []Module { return r.modules }

// Kind reports an action's value kind.
func (r *Registry) Kind(module, action string) (ValueKind, bool) {
	k, ok := r.kinds[module][action]
	return k, ok
}

// HasModule reports whether module is registered.
func (r *Registry) HasModule(module string) bool {
	_, ok := r.kinds[module]
	return ok
}

// RoleDefinition is a system role with its full default assignment.
type RoleDefinition struct {
	ID    string
	Name  string
	Color string

	defaults map[string]map[string]Value
}

// Default returns the role's value for an action. Actions the catalog left
// unset resolve to the zero value of their kind.
func (d RoleDefinition) Default(module, action string, kind ValueKind) Value {
	if v, ok := d.defaults[module][action]; ok {
		return v
	}
	return Zero(kind)
}

// Catalog bundles the Registry with the RoleDefaultMatrix. It is built once
// and shared read-only.
type Catalog struct {
	registry *Registry
	roles    map[string]RoleDefinition
	order    []string
}

// Registry returns the action schema.
func (c *Catalog) Registry() *Registry { return c.registry }

// Role looks up a system role.
func (c *Catalog) Role(id string) (RoleDefinition, bool) {
	d, ok := c.roles[id]
	return d, ok
}

// Roles returns the system roles in catalog order.
func (c *Catalog) Roles() []RoleDefinition {
	out := make([]RoleDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.roles[id])
	}
	return out
}

type catalogFile struct {
	Modules []Module `yaml:"modules"`
	Roles   []struct {
		ID          string                    `yaml:"id"`
		Name        string                    `yaml:"name"`
		Color       string                    `yaml:"color"`
		Permissions map[string]map[string]any `yaml:"permissions"`
	} `yaml:"roles"`
}

var ErrCatalog = errors.New("permission: invalid catalog")

// LoadCatalog parses and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}

	reg := &Registry{modules: f.Modules, kinds: make(map[string]map[string]ValueKind, len(f.Modules))}
	for _, m := range f.Modules {
		if m.Key == "" {
			return nil, fmt.Errorf("%w: module without key", ErrCatalog)
		}
		if _, dup := reg.kinds[m.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate module %q", ErrCatalog, m.Key)
		}
		actions := make(map[string]ValueKind, len(m.Actions))
		for _, a := range m.Actions {
			if a.Kind != KindBoolean && a.Kind != KindScoped {
				return nil, fmt.Errorf("%w: %s has unknown kind %q", ErrCatalog, Key(m.Key, a.Key), a.Kind)
			}
			if _, dup := actions[a.Key]; dup {
				return nil, fmt.Errorf("%w: duplicate action %s", ErrCatalog, Key(m.Key, a.Key))
			}
			actions[a.Key] = a.Kind
		}
		reg.kinds[m.Key] = actions
	}

	c := &Catalog{registry: reg, roles: make(map[string]RoleDefinition, len(f.Roles))}
	for _, fr := range f.Roles {
		if fr.ID == "" {
			return nil, fmt.Errorf("%w: role without id", ErrCatalog)
		}
		if _, dup := c.roles[fr.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrCatalog, fr.ID)
		}
		def := RoleDefinition{ID: fr.ID, Name: fr.Name, Color: fr.Color, defaults: map[string]map[string]Value{}}
		for module, actions := range fr.Permissions {
			for action, raw := range actions {
				kind, ok := reg.Kind(module, action)
				if !ok {
					return nil, fmt.Errorf("%w: role %q sets unregistered %s", ErrCatalog, fr.ID, Key(module, action))
				}
				v, err := defaultValue(kind, raw)
				if err != nil {
					return nil, fmt.Errorf("%w: role %q %s: %v", ErrCatalog, fr.ID, Key(module, action), err)
				}
				if def.defaults[module] == nil {
					def.defaults[module] = map[string]Value{}
				}
				def.defaults[module][action] = v
			}
		}
		c.roles[fr.ID] = def
		c.order = append(c.order, fr.ID)
	}
	return c, nil
}

// defaultValue normalises a catalog entry. A scope string on a scoped
// action always enables the action, a boolean maps to all or none.
func defaultValue(kind ValueKind, raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		if kind == KindBoolean {
			return Bool(v), nil
		}
		if v {
			return Scoped(ScopeAll), nil
		}
		return Zero(KindScoped), nil
	case string:
		if kind != KindScoped {
			return Value{}, fmt.Errorf("boolean action given %q", v)
		}
		s, ok := ParseScope(v)
		if !ok {
			return Value{}, fmt.Errorf("unknown scope %q", v)
		}
		return Scoped(s), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v", raw)
	}
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(embeddedCatalog))
})

// DefaultCatalog returns the embedded production catalog.
func DefaultCatalog() (*Catalog, error) { return defaultCatalog() }

// LoadCatalogFile reads a catalog from path, or the embedded one when path
// is empty.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path) // #nosec G304 - operator supplied path
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}
