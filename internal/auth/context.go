package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the resolved identity attached to an authenticated request.
type Principal struct {
	ID      uuid.UUID
	Name    string
	Email   string
	IsAdmin bool
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
