package svc

import (
	"context"
	"net/http"
	"strings"

	"github.com/lightgame/panel/internal/auth/token"
)

type identityKey struct{}

// WithIdentity stores the verified claims on ctx.
func WithIdentity(ctx context.Context, c token.Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, c)
}

// IdentityFrom returns the claims stored by the auth middleware.
func IdentityFrom(ctx context.Context) (token.Claims, bool) {
	c, ok := ctx.Value(identityKey{}).(token.Claims)
	return c, ok
}

// Authenticate verifies the request's bearer token.
func (sc *ServiceContext) Authenticate(r *http.Request) (token.Claims, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return token.Claims{}, false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	if tok == "" {
		return token.Claims{}, false
	}
	c, err := sc.Tokens.Verify(tok)
	if err != nil {
		return token.Claims{}, false
	}
	return c, true
}
