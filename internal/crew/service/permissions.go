package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
)

// PermissionService answers "what may this member do".
type PermissionService struct {
	Store    store.Store
	Resolver *permission.Resolver
}

type EffectivePermissions struct {
	OrganizationID string
	UserID         string
	RoleID         string
	Permissions    []permission.Resolved
}

// Effective resolves every registry action for userID. The caller must be
// an active member of the same organization.
func (s *PermissionService) Effective(ctx context.Context, callerID, organizationID, userID string) (EffectivePermissions, error) {
	if organizationID == "" || userID == "" {
		return EffectivePermissions{}, ErrMissingFields
	}
	if _, err := requireMember(ctx, s.Store.Members(), organizationID, callerID); err != nil {
		return EffectivePermissions{}, err
	}

	m, err := s.Store.Members().GetMember(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return EffectivePermissions{}, ErrMemberNotFound
		}
		return EffectivePermissions{}, internal(ctx, "failed to fetch member", err)
	}

	return EffectivePermissions{
		OrganizationID: organizationID,
		UserID:         userID,
		RoleID:         m.RoleID,
		Permissions:    s.Resolver.EffectiveAll(m.RoleID, m.Overrides),
	}, nil
}
