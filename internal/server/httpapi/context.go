package httpapi

import (
	"context"

	"github.com/rmachado/storeauth/internal/common"
	"github.com/rmachado/storeauth/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified identity attached by the
// Authenticate middleware, or common.ErrMissingToken when the request never
// passed through it.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, common.ErrMissingToken
	}
	return claims, nil
}
