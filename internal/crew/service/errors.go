package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/crew/pkg/errx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

var (
	ErrMissingFields   = errx.New(errx.InvalidArgument, "missing required fields")
	ErrUnauthenticated = errx.New(errx.Unauthenticated, "authentication required")
	ErrNotMember       = errx.New(errx.PermissionDenied, "caller is not a member of this organization")
	ErrNotAdmin        = errx.New(errx.PermissionDenied, "owner or admin role required")

	ErrInvalidCode            = errx.New(errx.InvalidArgument, "invitation code is required")
	ErrInvitationNotFound     = errx.New(errx.NotFound, "invitation not found")
	ErrInvitationInvalid      = errx.Precondition("invalid", "invitation has already been used or is invalid")
	ErrInvitationExpired      = errx.Precondition("expired", "invitation has expired")
	ErrInvitationExhausted    = errx.Precondition("exhausted", "invitation reached its maximum uses")
	ErrInvitationOrganization = errx.New(errx.InvalidArgument, "invitation belongs to a different organization")
	ErrInvitationRole         = errx.New(errx.InvalidArgument, "role does not match the invitation")
	ErrInvitationClient       = errx.New(errx.InvalidArgument, "client does not match the invitation")
	ErrInvalidMaxUses         = errx.New(errx.InvalidArgument, "maxUses must be at least 1")
	ErrInvalidExpiry          = errx.New(errx.InvalidArgument, "expiresAt must be in the future")

	ErrOrganizationNotFound = errx.New(errx.NotFound, "organization not found")
	ErrRoleNotFound         = errx.New(errx.NotFound, "role not found")
	ErrClientNotFound       = errx.New(errx.NotFound, "client not found")
	ErrMemberNotFound       = errx.New(errx.NotFound, "member not found")
	ErrUnknownClient        = errx.New(errx.InvalidArgument, "unknown client")
	ErrAlreadyMember        = errx.New(errx.AlreadyExists, "user is already a member of this organization")
)

// internal logs an unexpected collaborator failure and re-surfaces it as
// internal. Typed errors pass through unchanged.
func internal(ctx context.Context, msg string, err error) error {
	if errx.IsTyped(err) {
		return err
	}
	slogx.FromContext(ctx).Error(msg, slog.Any("error", err))
	return errx.Wrap(errx.Internal, msg, err)
}
