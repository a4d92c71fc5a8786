package auth

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/privilege"
)

// Principal is the authenticated caller attached to a request
type Principal struct {
	AccountID  string
	Email      string
	Role       string
	Verified   bool
	Active     bool
	Privileges privilege.Map // nil when nothing is cached
}

type principalContextKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &p)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || p == nil {
		return Principal{}, false
	}
	return *p, true
}
