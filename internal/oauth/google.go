// Package oauth proves an author's identity through an external OpenID
// Connect provider and hands back a verified profile.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dtroode/blog-server/internal/model"
)

const (
	ProviderGoogle = "google"
	googleIssuer   = "https://accounts.google.com"
)

var (
	// ErrMissingIDToken is returned when the token response carries no id_token.
	ErrMissingIDToken = errors.New("provider did not return id_token")
	// ErrUnverifiedEmail is returned when the provider has not verified the email.
	ErrUnverifiedEmail = errors.New("provider email is not verified")
)

// Google exchanges authorization codes with Google and verifies the ID token.
type Google struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewGoogle discovers Google's OIDC endpoints and builds a provider.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURL string) (*Google, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return newGoogle(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}, provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func newGoogle(cfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *Google {
	return &Google{oauthConfig: cfg, verifier: verifier}
}

// Name returns the provider identifier.
func (g *Google) Name() string {
	return ProviderGoogle
}

// AuthCodeURL builds the authorization URL carrying state and the S256 PKCE
// challenge derived from verifier.
func (g *Google) AuthCodeURL(state, verifier string) string {
	return g.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades code for tokens, verifies the ID token and extracts the profile.
func (g *Google) Exchange(ctx context.Context, code, verifier string) (model.OAuthProfile, error) {
	token, err := g.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return model.OAuthProfile{}, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return model.OAuthProfile{}, ErrMissingIDToken
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.OAuthProfile{}, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return model.OAuthProfile{}, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return model.OAuthProfile{}, errors.New("google id_token missing required claims")
	}
	// Authors are matched by email, so an unverified one could claim any account.
	if !claims.EmailVerified {
		return model.OAuthProfile{}, ErrUnverifiedEmail
	}

	return model.OAuthProfile{
		Provider:   g.Name(),
		Subject:    claims.Subject,
		Email:      strings.ToLower(claims.Email),
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}
