package permission

// Resolver merges role defaults with member overrides.
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a resolver over c.
func NewResolver(c *Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Catalog returns the catalog the resolver reads.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Effective returns the value roleID plus overrides grant for one action.
// An override wins outright; otherwise the role default applies, and an
// unknown role gets the zero value of the action's kind. It never fails.
func (r *Resolver) Effective(roleID string, overrides map[string]Override, module, action string) Value {
	if o, ok := overrides[Key(module, action)]; ok {
		return o.Value()
	}

	kind, ok := r.catalog.registry.Kind(module, action)
	if !ok {
		kind = KindBoolean
	}
	role, ok := r.catalog.Role(roleID)
	if !ok {
		return Zero(kind)
	}
	return role.Default(module, action, kind)
}

// Resolved is one action's effective value.
type Resolved struct {
	Module     string `json:"module"`
	Action     string `json:"action"`
	Value      Value  `json:"value"`
	Overridden bool   `json:"overridden"`
}

// EffectiveAll resolves every registry action in catalog order.
func (r *Resolver) EffectiveAll(roleID string, overrides map[string]Override) []Resolved {
	var out []Resolved
	for _, m := range r.catalog.registry.Modules() {
		for _, a := range m.Actions {
			_, overridden := overrides[Key(m.Key, a.Key)]
			out = append(out, Resolved{
				Module:     m.Key,
				Action:     a.Key,
				Value:      r.Effective(roleID, overrides, m.Key, a.Key),
				Overridden: overridden,
			})
		}
	}
	return out
}
