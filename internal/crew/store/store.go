package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/permission"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional write whose guard no longer held.
	ErrConflict = errors.New("store: conditional write lost")
)

// Store is the root data access interface. Sub-repositories keep concerns
// apart and make it obvious when a call runs outside a transaction.
type Store interface {
	Organizations() Organizations
	Roles() Roles
	Members() Members
	Clients() Clients
	Profiles() Profiles
	Identities() Identities
	Invitations() Invitations
	Notifications() Notifications
	Receipts() Receipts
	ActivationRequests() ActivationRequests

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Only use tx inside fn; calling the outer
	// store from fn can deadlock single-connection databases.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	CreateOrganization(ctx context.Context, o domain.Organization) error
	GetOrganization(ctx context.Context, id string) (domain.Organization, error)

	// ListOrganizationIDs returns every organization id, oldest first.
	ListOrganizationIDs(ctx context.Context) ([]string, error)
}

type Roles interface {
	// UpsertRole writes a role, replacing name, color and permissions when it exists.
	UpsertRole(ctx context.Context, r domain.Role) error
	GetRole(ctx context.Context, organizationID, roleID string) (domain.Role, error)
	ListRoles(ctx context.Context, organizationID string) ([]domain.Role, error)
	UpdateRolePermissions(ctx context.Context, organizationID, roleID string, doc permission.Document, at time.Time) error
}

type Members interface {
	// CreateMember fails with ErrAlreadyExists for a duplicate (organization, user).
	CreateMember(ctx context.Context, m domain.Member) error
	GetMember(ctx context.Context, organizationID, userID string) (domain.Member, error)
	ListMembers(ctx context.Context, organizationID string) ([]domain.Member, error)
	ListActiveMemberIDs(ctx context.Context, organizationID string) ([]string, error)

	// ReplaceOverrides stores structured overrides and clears any legacy map.
	ReplaceOverrides(ctx context.Context, organizationID, userID string, overrides map[string]permission.Override, at time.Time) error
}

type Clients interface {
	UpsertClient(ctx context.Context, c domain.Client) error
	GetClient(ctx context.Context, organizationID, clientID string) (domain.Client, error)

	// UpdateClientPermissions fails with ErrNotFound for unknown clients.
	UpdateClientPermissions(ctx context.Context, organizationID, clientID string, perms map[string]any, at time.Time) error
}

type Profiles interface {
	// UpsertProfile merges p into the stored profile. Empty fields keep
	// their stored value.
	UpsertProfile(ctx context.Context, p domain.UserProfile) error
	GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

type Identities interface {
	// CreateIdentity fails with ErrAlreadyExists when the email is taken.
	CreateIdentity(ctx context.Context, i domain.Identity) error
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// ConsumeOutcome says what Consume did.
type ConsumeOutcome int

const (
	// Consumed means a use was recorded for the user.
	Consumed ConsumeOutcome = iota + 1
	// AlreadyConsumed means the user had consumed the invitation before;
	// nothing changed.
	AlreadyConsumed
)

type Invitations interface {
	// CreateInvitation fails with ErrAlreadyExists when the code is taken,
	// compared case-insensitively.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	GetInvitation(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)

	// Consume records one use by userID if the invitation is still active,
	// unexpired and below maxUses at now, flipping status to used when the
	// last use goes. It is a single guarded write: it returns ErrConflict
	// when the guard fails and never lets usedCount exceed maxUses.
	Consume(ctx context.Context, invitationID, userID string, now time.Time) (ConsumeOutcome, error)
}

type Notifications interface {
	// CreateBroadcast writes the notification and one pointer per
	// destination, all or nothing.
	CreateBroadcast(ctx context.Context, n domain.Notification) error
	GetNotification(ctx context.Context, id string) (domain.Notification, error)
	ListUserNotifications(ctx context.Context, userID string) ([]domain.UserNotification, error)

	// DeleteExpiredNotifications removes notifications expired at now and
	// their pointers, returning how many notifications went.
	DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error)
}

type Receipts interface {
	GetReceipt(ctx context.Context, key string) (domain.OnboardingReceipt, error)
	// CreateReceipt fails with ErrAlreadyExists for a duplicate key.
	CreateReceipt(ctx context.Context, r domain.OnboardingReceipt) error
}

type ActivationRequests interface {
	CreateActivationRequest(ctx context.Context, r domain.ActivationRequest) error
	GetActivationRequest(ctx context.Context, id string) (domain.ActivationRequest, error)
	MarkActivationNotified(ctx context.Context, id string) error
}
