package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
)

// RoleCache keeps recently read role definitions. Entries expire after ttl
// and are dropped explicitly when a migration rewrites an organization.
type RoleCache struct {
	Store store.Store
	lru   *expirable.LRU[string, domain.Role]
}

// NewRoleCache caches up to size roles for ttl each.
func NewRoleCache(st store.Store, size int, ttl time.Duration) *RoleCache {
	if size <= 0 {
		size = 512
	}
	return &RoleCache{
		Store: st,
		lru:   expirable.NewLRU[string, domain.Role](size, nil, ttl),
	}
}

func roleKey(organizationID, roleID string) string {
	return organizationID + "/" + roleID
}

// Get returns the role, reading through to the store on a miss. It maps a
// missing role to ErrRoleNotFound.
func (c *RoleCache) Get(ctx context.Context, organizationID, roleID string) (domain.Role, error) {
	key := roleKey(organizationID, roleID)
	if r, ok := c.lru.Get(key); ok {
		return r, nil
	}

	r, err := c.Store.Roles().GetRole(ctx, organizationID, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, ErrRoleNotFound
		}
		return domain.Role{}, internal(ctx, "failed to fetch role", err)
	}
	c.lru.Add(key, r)
	return r, nil
}

// InvalidateOrganization drops every cached role of the organization.
func (c *RoleCache) InvalidateOrganization(organizationID string) {
	prefix := organizationID + "/"
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}
