package accounts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"

	"seratus-studio/internal/apperr"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleSignIn signs existing accounts in through Google's OpenID Connect
// flow.
type GoogleSignIn struct {
	oauth    *oauth2.Config
	accounts *Service

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewGoogleSignIn(cfg GoogleConfig, accounts *Service) *GoogleSignIn {
	return &GoogleSignIn{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		accounts: accounts,
	}
}

func RandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *GoogleSignIn) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// provider discovery is done once, on first use.
func (g *GoogleSignIn) idVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.oauth.ClientID})
	return g.verifier, nil
}

// Callback exchanges the authorization code, verifies the ID token and logs
// in the account matching its verified email.
func (g *GoogleSignIn) Callback(ctx context.Context, code string) (*Session, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Unauthorized("Failed to exchange code")
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, apperr.Unauthorized("Missing id_token")
	}

	verifier, err := g.idVerifier(ctx)
	if err != nil {
		return nil, apperr.Internal("init google oidc provider", err)
	}
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid id_token")
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperr.Internal("decode token claims", err)
	}
	return g.accounts.loginVerified(ctx, claims)
}

func (s *Service) loginVerified(ctx context.Context, c googleClaims) (*Session, error) {
	if c.Email == "" || c.Sub == "" {
		return nil, apperr.Unauthorized("Token missing required claims")
	}
	if !c.EmailVerified {
		return nil, apperr.Forbidden("Google account email is not verified")
	}
	return s.LoginWithEmail(ctx, c.Email)
}
