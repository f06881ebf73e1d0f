package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/identity"
	"github.com/aussiebroadwan/crew/internal/crew/observability"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

const (
	variantPassword = "password"
	variantIdentity = "identity"

	fallbackMemberName = "User"
)

// OnboardingService admits new members through an invitation.
type OnboardingService struct {
	Store       store.Store
	Identities  identity.Provider
	Invitations *InvitationService
	Fanout      *FanoutService
	Roles       *RoleCache
	Transformer *permission.Transformer
	Dispatcher  *Dispatcher
	Metrics     *observability.Metrics
	Now         func() time.Time
}

// JoinRequest is what both onboarding variants share.
type JoinRequest struct {
	InvitationID   string
	OrganizationID string
	RoleID         string
	ClientID       string
	Name           string
	Phone          string
}

// PasswordJoinRequest creates a new email/password identity before joining.
type PasswordJoinRequest struct {
	JoinRequest
	Email    string
	Password string
}

type JoinResult struct {
	UserID         string
	OrganizationID string
	Email          string
	Name           string

	// Replayed is true when an earlier call already completed this
	// admission and nothing was written.
	Replayed bool
}

// joinPlan is everything read before the transactional write.
type joinPlan struct {
	invitation domain.Invitation
	role       domain.Role
	overrides  map[string]permission.Override
	manageAll  bool
}

// JoinWithPassword creates an identity and admits it. If admission fails
// after the identity was created, the identity is deleted again.
func (s *OnboardingService) JoinWithPassword(ctx context.Context, req PasswordJoinRequest) (res JoinResult, err error) {
	log := slogx.FromContext(ctx)
	defer func() { s.Metrics.ObserveOnboarding(variantPassword, outcome(err)) }()

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" ||
		req.InvitationID == "" || req.OrganizationID == "" || req.RoleID == "" {
		return JoinResult{}, ErrMissingFields
	}

	plan, err := s.plan(ctx, req.JoinRequest)
	if err != nil {
		return JoinResult{}, err
	}

	id, err := s.Identities.CreateIdentity(ctx, req.Email, req.Password)
	if err != nil {
		return JoinResult{}, internal(ctx, "failed to create identity", err)
	}
	ctx = slogx.WithCaller(ctx, id.ID)

	res, err = s.admit(ctx, plan, req.JoinRequest, id.ID, req.Email, req.Name)
	if err != nil {
		if delErr := s.Identities.DeleteIdentity(context.WithoutCancel(ctx), id.ID); delErr != nil {
			log.Error("failed to delete identity after failed onboarding",
				slog.String("user_id", id.ID),
				slog.Any("error", delErr),
			)
		} else {
			log.Warn("deleted identity after failed onboarding", slog.String("user_id", id.ID))
		}
		return JoinResult{}, err
	}
	return res, nil
}

// JoinWithIdentity admits an already authenticated caller. Retrying a
// completed admission returns the original result.
func (s *OnboardingService) JoinWithIdentity(ctx context.Context, caller httpx.Principal, req JoinRequest) (res JoinResult, err error) {
	defer func() { s.Metrics.ObserveOnboarding(variantIdentity, outcome(err)) }()

	if caller.Subject == "" {
		return JoinResult{}, ErrUnauthenticated
	}
	if req.InvitationID == "" || req.OrganizationID == "" || req.RoleID == "" {
		return JoinResult{}, ErrMissingFields
	}

	name := firstNonEmpty(strings.TrimSpace(req.Name), caller.Name, fallbackMemberName)

	key := domain.OnboardingKey(req.OrganizationID, req.InvitationID, caller.Subject)
	if _, err := s.Store.Receipts().GetReceipt(ctx, key); err == nil {
		slogx.FromContext(ctx).Info("onboarding already completed",
			slog.String("organization_id", req.OrganizationID),
			slog.String("invitation_id", req.InvitationID),
		)
		return JoinResult{
			UserID: caller.Subject, OrganizationID: req.OrganizationID,
			Email: caller.Email, Name: name, Replayed: true,
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return JoinResult{}, internal(ctx, "failed to fetch onboarding receipt", err)
	}

	plan, err := s.plan(ctx, req)
	if err != nil {
		return JoinResult{}, err
	}
	return s.admit(ctx, plan, req, caller.Subject, caller.Email, name)
}

// plan resolves the invitation, role and client overrides. It writes nothing.
func (s *OnboardingService) plan(ctx context.Context, req JoinRequest) (joinPlan, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invitations().GetInvitation(ctx, req.InvitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return joinPlan{}, ErrInvitationNotFound
		}
		return joinPlan{}, internal(ctx, "failed to fetch invitation", err)
	}
	if inv.OrganizationID != req.OrganizationID {
		log.Warn("invitation used for another organization",
			slog.String("invitation_id", inv.ID),
			slog.String("invitation_organization_id", inv.OrganizationID),
			slog.String("organization_id", req.OrganizationID),
		)
		return joinPlan{}, ErrInvitationOrganization
	}
	// The invitation, not the caller, decides the role and client.
	if req.RoleID != inv.RoleID {
		log.Warn("join requested a role the invitation does not grant",
			slog.String("invitation_id", inv.ID),
			slog.String("invitation_role_id", inv.RoleID),
			slog.String("role_id", req.RoleID),
		)
		return joinPlan{}, ErrInvitationRole
	}
	if req.ClientID != inv.ClientID {
		log.Warn("join requested a client the invitation is not bound to",
			slog.String("invitation_id", inv.ID),
			slog.String("invitation_client_id", inv.ClientID),
			slog.String("client_id", req.ClientID),
		)
		return joinPlan{}, ErrInvitationClient
	}
	if err := usable(inv, clock(s.Now)); err != nil {
		return joinPlan{}, err
	}

	role, err := s.Roles.Get(ctx, req.OrganizationID, req.RoleID)
	if err != nil {
		return joinPlan{}, err
	}

	plan := joinPlan{
		invitation: inv,
		role:       role,
		overrides:  map[string]permission.Override{},
		manageAll:  req.ClientID == "",
	}
	if req.ClientID != "" {
		client, err := s.Store.Clients().GetClient(ctx, req.OrganizationID, req.ClientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return joinPlan{}, ErrClientNotFound
			}
			return joinPlan{}, internal(ctx, "failed to fetch client", err)
		}
		plan.overrides = s.Transformer.Transform(ctx, client.Permissions, permission.SystemActor)
	}
	return plan, nil
}

// admit writes profile, membership, invitation use and receipt in one
// transaction, then schedules the join notification.
func (s *OnboardingService) admit(
	ctx context.Context,
	plan joinPlan,
	req JoinRequest,
	userID, email, name string,
) (JoinResult, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)
	key := domain.OnboardingKey(req.OrganizationID, req.InvitationID, userID)
	res := JoinResult{UserID: userID, OrganizationID: req.OrganizationID, Email: email, Name: name}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Receipts().GetReceipt(ctx, key); err == nil {
			res.Replayed = true
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Profiles().UpsertProfile(ctx, domain.UserProfile{
			ID:             userID,
			Email:          email,
			Name:           name,
			Phone:          req.Phone,
			OrganizationID: req.OrganizationID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}

		err := tx.Members().CreateMember(ctx, domain.Member{
			OrganizationID:     req.OrganizationID,
			UserID:             userID,
			Name:               name,
			Email:              email,
			RoleID:             plan.role.ID,
			RoleName:           plan.role.Name,
			RoleColor:          plan.role.Color,
			ClientID:           req.ClientID,
			Overrides:          plan.overrides,
			AssignedPhases:     []string{},
			CanManageAllPhases: plan.manageAll,
			IsActive:           true,
			JoinedAt:           now,
			UpdatedAt:          now,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyMember
		}
		if err != nil {
			return err
		}

		if _, err := s.Invitations.consume(ctx, tx, plan.invitation.ID, userID); err != nil {
			return err
		}

		return tx.Receipts().CreateReceipt(ctx, domain.OnboardingReceipt{
			Key:            key,
			OrganizationID: req.OrganizationID,
			InvitationID:   plan.invitation.ID,
			UserID:         userID,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return JoinResult{}, internal(ctx, "failed to write membership", err)
	}
	if res.Replayed {
		return res, nil
	}

	log.Info("member joined",
		slog.String("organization_id", req.OrganizationID),
		slog.String("user_id", userID),
		slog.String("role_id", plan.role.ID),
		slog.String("client_id", req.ClientID),
		slog.Int("overrides", len(plan.overrides)),
	)

	roleName := plan.role.Name
	s.Dispatcher.Go(ctx, "fanout", func(ctx context.Context) error {
		_, _, err := s.Fanout.Broadcast(ctx, req.OrganizationID, userID, name, roleName)
		return err
	})
	return res, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
