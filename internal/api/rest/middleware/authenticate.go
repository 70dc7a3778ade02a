package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
)

const (
	SchemeBearer = "bearer"
	SchemeBasic  = "basic"
)

// TokenValidator resolves claims from bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (model.Claims, error)
}

// CredentialChecker verifies an email and password pair.
type CredentialChecker interface {
	CheckCredentials(ctx context.Context, email, password string) (model.Author, error)
}

// AuthRecorder counts authentication outcomes.
type AuthRecorder interface {
	RecordAuth(scheme, outcome string)
}

// Authenticator is one way of proving who is calling.
type Authenticator interface {
	Scheme() string
	Challenge() string
	Authenticate(r *http.Request) (model.Principal, error)
}

// Bearer authenticates requests carrying an access token.
type Bearer struct {
	validator TokenValidator
}

// NewBearer creates a bearer token authenticator.
func NewBearer(validator TokenValidator) *Bearer {
	return &Bearer{validator: validator}
}

func (b *Bearer) Scheme() string    { return SchemeBearer }
func (b *Bearer) Challenge() string { return "Bearer" }

// Authenticate reads the token from the Authorization header and validates it.
func (b *Bearer) Authenticate(r *http.Request) (model.Principal, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return model.Principal{}, model.ErrTokenMissing
	}

	claims, err := b.validator.ValidateToken(token)
	if err != nil {
		return model.Principal{}, err
	}

	return model.Principal{Claims: claims}, nil
}

// Basic authenticates requests with email and password on every call.
// The role comes from storage rather than a token.
type Basic struct {
	checker CredentialChecker
}

// NewBasic creates a basic credentials authenticator.
func NewBasic(checker CredentialChecker) *Basic {
	return &Basic{checker: checker}
}

func (b *Basic) Scheme() string    { return SchemeBasic }
func (b *Basic) Challenge() string { return `Basic realm="blog"` }

// Authenticate decodes the basic credentials and checks them.
func (b *Basic) Authenticate(r *http.Request) (model.Principal, error) {
	email, password, ok := r.BasicAuth()
	if !ok {
		return model.Principal{}, model.ErrInvalidCredentials
	}

	author, err := b.checker.CheckCredentials(r.Context(), email, password)
	if err != nil {
		return model.Principal{}, err
	}

	return model.Principal{Claims: model.Claims{AuthorID: author.ID, Role: author.Role}}, nil
}

// Authenticate is the authentication gate. It attaches the principal to the
// request context or stops the request with 401.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	recorder       AuthRecorder
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	authenticator Authenticator,
	contextManager model.ContextManager,
	recorder AuthRecorder,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		authenticator:  authenticator,
		contextManager: contextManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Handle wraps next with the gate.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme := m.authenticator.Scheme()

		principal, err := m.authenticator.Authenticate(r)
		if err != nil {
			m.recorder.RecordAuth(scheme, metrics.OutcomeFailure)
			m.logger.Debug("Authenticate middleware: request rejected",
				"scheme", scheme,
				"path", r.URL.Path,
				"error", err.Error())
			w.Header().Set("WWW-Authenticate", m.authenticator.Challenge())
			response.Error(w, m.logger, err)
			return
		}

		m.recorder.RecordAuth(scheme, metrics.OutcomeSuccess)
		notePrincipal(r.Context(), principal)
		ctx := m.contextManager.SetPrincipalToContext(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
