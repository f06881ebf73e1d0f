// Package identity creates local identities and verifies callers.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crew/internal/crew/domain"
	"github.com/aussiebroadwan/crew/internal/crew/store"
	"github.com/aussiebroadwan/crew/pkg/cryptox"
	"github.com/aussiebroadwan/crew/pkg/errx"
	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/slogx"
)

var (
	ErrEmailExists        = errx.New(errx.AlreadyExists, "email already registered")
	ErrInvalidCredentials = errx.New(errx.Unauthenticated, "invalid email or password")
	ErrWeakPassword       = errx.New(errx.InvalidArgument, "password must be at least 8 characters")
)

const minPasswordLen = 8

// Provider creates and removes sign-in identities. Onboarding treats it
// as an external system: identities are created outside the onboarding
// transaction and deleted again if that transaction fails.
type Provider interface {
	CreateIdentity(ctx context.Context, email, password string) (domain.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// LocalProvider keeps email/password identities in the store with
// argon2id hashes.
type LocalProvider struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Now    func() time.Time
}

func (p *LocalProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *LocalProvider) CreateIdentity(ctx context.Context, email, password string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if len(password) < minPasswordLen {
		return domain.Identity{}, ErrWeakPassword
	}

	hash, err := p.Hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Identity{}, err
	}

	id := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}
	if err := p.Store.Identities().CreateIdentity(ctx, id); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("identity email already registered")
			return domain.Identity{}, ErrEmailExists
		}
		log.Error("failed to create identity", slog.Any("error", err))
		return domain.Identity{}, err
	}

	log.Debug("identity created", slog.String("user_id", id.ID))
	return id, nil
}

func (p *LocalProvider) DeleteIdentity(ctx context.Context, id string) error {
	err := p.Store.Identities().DeleteIdentity(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate checks an email/password pair against the stored hash.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	id, err := p.Store.Identities().GetIdentityByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}
	if err := p.Hasher.Verify(password, id.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}
	return id, nil
}
