package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/cryptox"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

const (
	invitationCodeLength    = 8
	invitationCodeAttempts  = 5
	defaultInvitationTTL    = 7 * 24 * time.Hour
	defaultInvitationMaxUse = 1
)

// InvitationService is the invitation ledger: it validates, consumes and
// mints invitation codes.
type InvitationService struct {
	Store   store.Store
	Metrics *observability.Metrics
	Now     func() time.Time
}

// usable maps an invitation's state at now onto the caller-visible failure.
func usable(inv domain.Invitation, now time.Time) error {
	switch inv.State(now) {
	case domain.StateUsed:
		return ErrInvitationInvalid
	case domain.StateExpired:
		return ErrInvitationExpired
	case domain.StateExhausted:
		return ErrInvitationExhausted
	default:
		return nil
	}
}

// Validate looks an invitation up by code, case-insensitively, and checks
// that it can still be used.
func (s *InvitationService) Validate(ctx context.Context, code string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(code) == "" {
		s.Metrics.ObserveValidation("invalid_argument")
		return domain.Invitation{}, ErrInvalidCode
	}

	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation code not found")
			s.Metrics.ObserveValidation("not_found")
			return domain.Invitation{}, ErrInvitationNotFound
		}
		s.Metrics.ObserveValidation("error")
		return domain.Invitation{}, internal(ctx, "failed to fetch invitation", err)
	}

	if err := usable(inv, clock(s.Now)); err != nil {
		log.Warn("invitation not usable",
			slog.String("invitation_id", inv.ID),
			slog.String("state", string(inv.State(clock(s.Now)))),
		)
		s.Metrics.ObserveValidation(string(inv.State(clock(s.Now))))
		return domain.Invitation{}, err
	}

	s.Metrics.ObserveValidation("ok")
	return inv, nil
}

// Consume records one use of the invitation by userID. Consuming again for
// the same user is a no-op.
func (s *InvitationService) Consume(ctx context.Context, invitationID, userID string) (store.ConsumeOutcome, error) {
	return s.consume(ctx, s.Store, invitationID, userID)
}

// consume runs against st so onboarding can call it inside its transaction.
func (s *InvitationService) consume(ctx context.Context, st store.Store, invitationID, userID string) (store.ConsumeOutcome, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	out, err := st.Invitations().Consume(ctx, invitationID, userID, now)
	switch {
	case err == nil:
		if out == store.AlreadyConsumed {
			s.Metrics.ObserveConsume("already_consumed")
			log.Info("invitation already consumed by user",
				slog.String("invitation_id", invitationID),
				slog.String("user_id", userID),
			)
		} else {
			s.Metrics.ObserveConsume("consumed")
		}
		return out, nil

	case errors.Is(err, store.ErrConflict):
		// The guard failed; read back to say why.
		inv, getErr := st.Invitations().GetInvitation(ctx, invitationID)
		if getErr != nil {
			if errors.Is(getErr, store.ErrNotFound) {
				s.Metrics.ObserveConsume("not_found")
				return 0, ErrInvitationNotFound
			}
			return 0, internal(ctx, "failed to fetch invitation", getErr)
		}
		s.Metrics.ObserveConsume(string(inv.State(now)))
		if reason := usable(inv, now); reason != nil {
			return 0, reason
		}
		return 0, ErrInvitationExhausted

	default:
		s.Metrics.ObserveConsume("error")
		return 0, internal(ctx, "failed to consume invitation", err)
	}
}

// MintRequest describes a new invitation.
type MintRequest struct {
	OrganizationID string
	RoleID         string
	ClientID       string
	MaxUses        int       // zero means 1
	ExpiresAt      time.Time // zero means seven days from now
	CreatedBy      string
}

// Mint creates an invitation with a fresh random code. Only owners and
// admins of the organization may mint.
func (s *InvitationService) Mint(ctx context.Context, req MintRequest) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	if req.OrganizationID == "" || req.RoleID == "" {
		return domain.Invitation{}, ErrMissingFields
	}
	if _, err := requireAdmin(ctx, s.Store.Members(), req.OrganizationID, req.CreatedBy); err != nil {
		return domain.Invitation{}, err
	}

	if req.MaxUses == 0 {
		req.MaxUses = defaultInvitationMaxUse
	}
	if req.MaxUses < 1 {
		return domain.Invitation{}, ErrInvalidMaxUses
	}
	if req.ExpiresAt.IsZero() {
		req.ExpiresAt = now.Add(defaultInvitationTTL)
	}
	if !req.ExpiresAt.After(now) {
		return domain.Invitation{}, ErrInvalidExpiry
	}

	if _, err := s.Store.Roles().GetRole(ctx, req.OrganizationID, req.RoleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrRoleNotFound
		}
		return domain.Invitation{}, internal(ctx, "failed to fetch role", err)
	}
	if req.ClientID != "" {
		if _, err := s.Store.Clients().GetClient(ctx, req.OrganizationID, req.ClientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invitation{}, ErrClientNotFound
			}
			return domain.Invitation{}, internal(ctx, "failed to fetch client", err)
		}
	}

	inv := domain.Invitation{
		ID:             idx.New().String(),
		OrganizationID: req.OrganizationID,
		RoleID:         req.RoleID,
		ClientID:       req.ClientID,
		Status:         domain.InvitationActive,
		MaxUses:        req.MaxUses,
		CreatedBy:      req.CreatedBy,
		ExpiresAt:      req.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Codes are short, so a collision with an existing code is possible;
	// the unique index catches it and we draw again.
	for attempt := 1; ; attempt++ {
		code, err := cryptox.GenerateCode(invitationCodeLength)
		if err != nil {
			return domain.Invitation{}, internal(ctx, "failed to generate invitation code", err)
		}
		inv.Code = code

		err = s.Store.Invitations().CreateInvitation(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) || attempt == invitationCodeAttempts {
			return domain.Invitation{}, internal(ctx, "failed to create invitation", err)
		}
		log.Warn("invitation code collision, retrying", slog.Int("attempt", attempt))
	}

	log.Info("invitation minted",
		slog.String("invitation_id", inv.ID),
		slog.String("organization_id", inv.OrganizationID),
		slog.String("role_id", inv.RoleID),
		slog.Int("max_uses", inv.MaxUses),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return inv, nil
}
