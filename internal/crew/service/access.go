package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
)

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

// requireMember returns the caller's active membership.
func requireMember(ctx context.Context, members store.Members, organizationID, callerID string) (domain.Member, error) {
	if callerID == "" {
		return domain.Member{}, ErrUnauthenticated
	}
	m, err := members.GetMember(ctx, organizationID, callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrNotMember
		}
		return domain.Member{}, internal(ctx, "failed to fetch caller membership", err)
	}
	if !m.IsActive {
		return domain.Member{}, ErrNotMember
	}
	return m, nil
}

// requireAdmin is requireMember restricted to owners and admins.
func requireAdmin(ctx context.Context, members store.Members, organizationID, callerID string) (domain.Member, error) {
	m, err := requireMember(ctx, members, organizationID, callerID)
	if err != nil {
		return domain.Member{}, err
	}
	if !m.IsAdmin() {
		return domain.Member{}, ErrNotAdmin
	}
	return m, nil
}
