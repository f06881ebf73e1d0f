package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// OrganizationService creates organizations and keeps their system roles.
type OrganizationService struct {
	Store   store.Store
	Catalog *permission.Catalog
	Roles   *RoleCache
	Now     func() time.Time
}

// Create makes a new organization, seeds the catalog roles and makes the
// caller its owner.
func (s *OrganizationService) Create(ctx context.Context, caller httpx.Principal, name string) (domain.Organization, error) {
	if caller.Subject == "" {
		return domain.Organization{}, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Organization{}, ErrMissingFields
	}

	now := clock(s.Now)
	org := domain.Organization{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		OwnerID:   caller.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner, _ := s.Catalog.Role(domain.RoleOwner)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		if err := s.seed(ctx, tx, org.ID, now); err != nil {
			return err
		}
		if err := tx.Profiles().UpsertProfile(ctx, domain.UserProfile{
			ID: caller.Subject, Email: caller.Email, Name: caller.Name,
			OrganizationID: org.ID, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Members().CreateMember(ctx, domain.Member{
			OrganizationID:     org.ID,
			UserID:             caller.Subject,
			Name:               firstNonEmpty(caller.Name, fallbackMemberName),
			Email:              caller.Email,
			RoleID:             domain.RoleOwner,
			RoleName:           owner.Name,
			RoleColor:          owner.Color,
			Overrides:          map[string]permission.Override{},
			AssignedPhases:     []string{},
			CanManageAllPhases: true,
			IsActive:           true,
			JoinedAt:           now,
			UpdatedAt:          now,
		})
	})
	if err != nil {
		return domain.Organization{}, internal(ctx, "failed to create organization", err)
	}

	slogx.FromContext(ctx).Info("organization created",
		slog.String("organization_id", org.ID),
		slog.String("owner_id", org.OwnerID),
	)
	return org, nil
}

// SeedRoles writes every catalog role into the organization with its
// canonical permissions, replacing stored copies.
func (s *OrganizationService) SeedRoles(ctx context.Context, organizationID string) (int, error) {
	if _, err := s.Store.Organizations().GetOrganization(ctx, organizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrOrganizationNotFound
		}
		return 0, internal(ctx, "failed to fetch organization", err)
	}

	now := clock(s.Now)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.seed(ctx, tx, organizationID, now)
	})
	if err != nil {
		return 0, internal(ctx, "failed to seed roles", err)
	}
	if s.Roles != nil {
		s.Roles.InvalidateOrganization(organizationID)
	}
	return len(s.Catalog.Roles()), nil
}

func (s *OrganizationService) seed(ctx context.Context, st store.Store, organizationID string, now time.Time) error {
	for _, def := range s.Catalog.Roles() {
		doc, _ := s.Catalog.Expand(def.ID)
		if err := st.Roles().UpsertRole(ctx, domain.Role{
			OrganizationID: organizationID,
			ID:             def.ID,
			Name:           def.Name,
			Color:          def.Color,
			Permissions:    doc,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}
	}
	return nil
}
