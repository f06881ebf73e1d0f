package identity

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/crew/pkg/httpx"
	"github.com/aussiebroadwan/crew/pkg/jwtx"
)

// Sessions issues and verifies the service's own HS256 access tokens.
type Sessions struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
	Now      func() time.Time
}

// NewSessions builds a signer/verifier pair over one secret.
func NewSessions(secret []byte, issuer string, ttl time.Duration) (*Sessions, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHS256(secret, issuer, nil)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	return &Sessions{Signer: signer, Verifier: verifier, Issuer: issuer, TTL: ttl, Now: time.Now}, nil
}

// Issue signs an access token for the subject.
func (s *Sessions) Issue(subject, email, name string) (token string, expiresAt time.Time, err error) {
	claims := jwtx.NewAccessClaims(subject, email, name, s.Issuer, s.TTL, s.Now())
	token, err = s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Authenticate implements httpx.Authenticator.
func (s *Sessions) Authenticate(_ context.Context, raw string) (httpx.Principal, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Issuer:  claims.Issuer,
	}, nil
}

// ErrNoAuthenticator is returned by an empty Chain.
var ErrNoAuthenticator = errors.New("identity: no authenticator configured")

// Chain tries each authenticator in order and returns the first success.
type Chain []httpx.Authenticator

func (c Chain) Authenticate(ctx context.Context, raw string) (httpx.Principal, error) {
	errs := make([]error, 0, len(c))
	for _, a := range c {
		p, err := a.Authenticate(ctx, raw)
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return httpx.Principal{}, ErrNoAuthenticator
	}
	return httpx.Principal{}, errors.Join(errs...)
}
