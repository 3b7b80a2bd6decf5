package cache

import (
	"context"
	"fmt"
)

// IdentityProvider reports the identity of the current user.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - IdentityToken must not perform I/O; ok is false when nobody is authenticated.
type IdentityProvider interface {
	IdentityToken(ctx context.Context) (token string, ok bool)
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) (string, bool)

// IdentityToken calls f.
func (f IdentityFunc) IdentityToken(ctx context.Context) (string, bool) {
	return f(ctx)
}

// Keyer derives the final storage key of a request.
//
// Contract:
// - Determinism: the same logical key and identity must produce the same key.
// - Isolation: identity-bound keys of different identities must not collide.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(ctx context.Context, logicalKey string, bindIdentity bool) (string, error)
}

// IdentityKeyer binds keys to the identity reported by an IdentityProvider.
type IdentityKeyer struct {
	identity IdentityProvider
}

// NewIdentityKeyer creates a keyer. A nil provider makes every
// identity-bound key fail with ErrIdentityUnavailable.
func NewIdentityKeyer(identity IdentityProvider) *IdentityKeyer {
	return &IdentityKeyer{identity: identity}
}

// Key returns logicalKey unchanged, or "<token>_<logicalKey>" when
// bindIdentity is set.
func (k *IdentityKeyer) Key(ctx context.Context, logicalKey string, bindIdentity bool) (string, error) {
	if err := ValidateKey(logicalKey); err != nil {
		return "", err
	}

	if !bindIdentity {
		return logicalKey, nil
	}

	if k.identity == nil {
		return "", fmt.Errorf("%w: no identity provider", ErrIdentityUnavailable)
	}

	token, ok := k.identity.IdentityToken(ctx)
	if !ok || token == "" {
		return "", fmt.Errorf("%w: not authenticated", ErrIdentityUnavailable)
	}

	return token + "_" + logicalKey, nil
}

// Ensure IdentityKeyer implements Keyer
var _ Keyer = (*IdentityKeyer)(nil)
