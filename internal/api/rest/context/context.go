package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

type principalKey struct{}

// Manager stores the authenticated principal on request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a copy of ctx carrying principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the principal attached by the authentication
// gate. ok is false when the request was never authenticated.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.AuthorID == uuid.Nil {
		return model.Principal{}, false
	}
	return principal, true
}
