package auth

import (
	"context"
	"time"
)

type identityCtxKey struct{}

// WithIdentity scopes ctx to id. Requests made with the returned context
// bind their keys to id when served through ContextProvider.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity attached by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*Identity)
	return id
}

// ContextProvider reports the identity carried by the request context, for
// servers that resolve a user per call rather than per process.
type ContextProvider struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

// IdentityToken returns the token of the context identity.
func (p ContextProvider) IdentityToken(ctx context.Context) (string, bool) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return tokenOf(IdentityFromContext(ctx), now())
}
