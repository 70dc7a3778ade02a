package model

import "context"

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	Claims
}

// ContextManager stores and loads the principal on a context.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
