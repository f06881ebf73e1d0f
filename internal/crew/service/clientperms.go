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
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

// ClientPermissionService replaces a client's permission map and pushes it
// down to the members attached to that client.
type ClientPermissionService struct {
	Store       store.Store
	Transformer *permission.Transformer
	Now         func() time.Time
}

// Register creates a client with its initial permission map.
func (s *ClientPermissionService) Register(
	ctx context.Context,
	callerID string,
	organizationID string,
	name string,
	perms map[string]any,
) (domain.Client, error) {
	if callerID == "" {
		return domain.Client{}, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if organizationID == "" || name == "" {
		return domain.Client{}, ErrMissingFields
	}
	if _, err := requireAdmin(ctx, s.Store.Members(), organizationID, callerID); err != nil {
		return domain.Client{}, err
	}
	if perms == nil {
		perms = map[string]any{}
	}

	now := clock(s.Now)
	c := domain.Client{
		OrganizationID: organizationID,
		ID:             idx.NewAt(now).String(),
		Name:           name,
		Permissions:    perms,
		UpdatedAt:      now,
	}
	if err := s.Store.Clients().UpsertClient(ctx, c); err != nil {
		return domain.Client{}, internal(ctx, "failed to create client", err)
	}

	slogx.FromContext(ctx).Info("client registered",
		slog.String("organization_id", organizationID),
		slog.String("client_id", c.ID),
	)
	return c, nil
}

// Apply stores perms on the client and rewrites the overrides of every
// member attached to it. It returns how many members were updated.
func (s *ClientPermissionService) Apply(
	ctx context.Context,
	callerID string,
	organizationID string,
	clientID string,
	perms map[string]any,
) (int, error) {
	log := slogx.FromContext(ctx)

	if callerID == "" {
		return 0, ErrUnauthenticated
	}
	if organizationID == "" || clientID == "" || perms == nil {
		return 0, ErrMissingFields
	}
	if _, err := requireAdmin(ctx, s.Store.Members(), organizationID, callerID); err != nil {
		return 0, err
	}

	now := clock(s.Now)
	overrides := s.Transformer.Transform(ctx, perms, callerID)

	updated := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Clients().UpdateClientPermissions(ctx, organizationID, clientID, perms, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownClient
			}
			return err
		}

		members, err := tx.Members().ListMembers(ctx, organizationID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.ClientID != clientID {
				continue
			}
			if err := tx.Members().ReplaceOverrides(ctx, organizationID, m.UserID, overrides, now); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, internal(ctx, "failed to apply client permissions", err)
	}

	log.Info("client permissions applied",
		slog.String("organization_id", organizationID),
		slog.String("client_id", clientID),
		slog.Int("overrides", len(overrides)),
		slog.Int("members_updated", updated),
	)
	return updated, nil
}
