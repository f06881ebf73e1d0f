package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/aussiebroadwan/crew/pkg/httpx"
)

// GoogleIssuer is the issuer of Google Sign-In ID tokens.
const GoogleIssuer = "https://accounts.google.com"

// OIDCVerifier accepts ID tokens from an external OpenID provider, such as
// Google Sign-In on the mobile client.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the provider's keys from its issuer URL.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	return &OIDCVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewOIDCVerifierWithKeys skips discovery and checks signatures against keys.
func NewOIDCVerifierWithKeys(issuer string, keys oidc.KeySet, cfg *oidc.Config) *OIDCVerifier {
	return &OIDCVerifier{verifier: oidc.NewVerifier(issuer, keys, cfg)}
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (v *OIDCVerifier) Authenticate(ctx context.Context, raw string) (httpx.Principal, error) {
	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims idTokenClaims
	if err := tok.Claims(&claims); err != nil {
		return httpx.Principal{}, fmt.Errorf("parse id token claims: %w", err)
	}
	if tok.Subject == "" {
		return httpx.Principal{}, fmt.Errorf("id token has no subject")
	}

	p := httpx.Principal{Subject: tok.Subject, Name: claims.Name, Issuer: tok.Issuer}
	if claims.EmailVerified {
		p.Email = claims.Email
	}
	return p, nil
}
