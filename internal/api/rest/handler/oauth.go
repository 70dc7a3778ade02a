package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/oauth"
)

// OAuthProvider performs the redirect handshake with an identity provider.
type OAuthProvider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (model.OAuthProfile, error)
}

// OAuth glues a provider handshake to the token issuing login bridge.
type OAuth struct {
	provider        OAuthProvider
	authService     AuthService
	recorder        TokenRecorder
	successRedirect string
	secureCookies   bool
	logger          *logger.Logger
}

// NewOAuth creates a new OAuth handler. When successRedirect is set the
// callback redirects there with the token in the accessToken query parameter.
func NewOAuth(
	provider OAuthProvider,
	authService AuthService,
	recorder TokenRecorder,
	successRedirect string,
	secureCookies bool,
	logger *logger.Logger,
) *OAuth {
	return &OAuth{
		provider:        provider,
		authService:     authService,
		recorder:        recorder,
		successRedirect: successRedirect,
		secureCookies:   secureCookies,
		logger:          logger,
	}
}

// Start redirects the browser to the provider's consent page.
func (h *OAuth) Start(w http.ResponseWriter, r *http.Request) {
	flow, err := oauth.StartFlow(w, h.secureCookies)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	http.Redirect(w, r, h.provider.AuthCodeURL(flow.State, flow.Verifier), http.StatusFound)
}

// Callback validates state, exchanges the code and logs the author in.
func (h *OAuth) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		h.logger.Info("OAuth handler: provider denied sign-in", "error", providerErr)
		response.Error(w, h.logger, fmt.Errorf("%w: provider returned %s", model.ErrInvalidCredentials, providerErr))
		return
	}

	flow, err := oauth.FinishFlow(w, r, h.secureCookies)
	if err != nil {
		h.logger.Warn("OAuth handler: flow check failed", "error", err.Error())
		response.Error(w, h.logger, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	code := q.Get("code")
	if code == "" {
		response.Error(w, h.logger, model.InvalidInputf("code is required"))
		return
	}

	profile, err := h.provider.Exchange(r.Context(), code, flow.Verifier)
	if err != nil {
		h.logger.Warn("OAuth handler: code exchange failed", "error", err.Error())
		response.Error(w, h.logger, fmt.Errorf("%w: provider exchange failed", model.ErrInvalidCredentials))
		return
	}

	token, author, err := h.authService.OAuthLogin(r.Context(), profile)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.recorder.RecordTokenIssued()

	h.logger.Info("OAuth handler: author signed in",
		"author_id", author.ID,
		"provider", profile.Provider)

	if h.successRedirect == "" {
		response.JSON(w, http.StatusOK, tokenResponse{AccessToken: token})
		return
	}

	target, err := url.Parse(h.successRedirect)
	if err != nil {
		response.Error(w, h.logger, fmt.Errorf("failed to parse success redirect: %w", err))
		return
	}
	values := target.Query()
	values.Set("accessToken", token)
	target.RawQuery = values.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}
