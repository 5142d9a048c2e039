package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// IdentityFrom returns the verified claims, or nil when the request did not
// pass the authentication gate.
func IdentityFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(identityKey).(*Claims)
	return claims
}
