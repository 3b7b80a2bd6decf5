package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/reqcache/cache"
)

// SessionProvider holds the identity of the current session, typically the
// result of a login.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - IdentityToken reports no identity when none is set, or when the identity
//   is anonymous or expired.
type SessionProvider struct {
	mu  sync.RWMutex
	id  *Identity
	now func() time.Time
}

// NewSessionProvider creates an empty session.
func NewSessionProvider() *SessionProvider {
	return &SessionProvider{now: time.Now}
}

// Login verifies token and makes its identity current.
func (p *SessionProvider) Login(ctx context.Context, token string, config JWTConfig, keys KeyProvider) (*Identity, error) {
	id, err := ParseToken(ctx, token, config, keys)
	if err != nil {
		return nil, err
	}
	p.Set(id)
	return id, nil
}

// Set replaces the current identity.
func (p *SessionProvider) Set(id *Identity) {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
}

// Logout clears the current identity.
func (p *SessionProvider) Logout() {
	p.Set(nil)
}

// Identity returns the current identity, or nil.
func (p *SessionProvider) Identity() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

// Current returns the current identity, or ErrUnauthenticated when nobody
// usable is logged in.
func (p *SessionProvider) Current() (*Identity, error) {
	id := p.Identity()
	if _, ok := tokenOf(id, p.now()); !ok {
		return nil, ErrUnauthenticated
	}
	return id, nil
}

// IdentityToken returns the token of the current identity.
func (p *SessionProvider) IdentityToken(_ context.Context) (string, bool) {
	return tokenOf(p.Identity(), p.now())
}

// StaticProvider always reports the same token. An empty token means not
// authenticated.
type StaticProvider string

// IdentityToken returns p.
func (p StaticProvider) IdentityToken(_ context.Context) (string, bool) {
	return string(p), p != ""
}

func tokenOf(id *Identity, now time.Time) (string, bool) {
	if id == nil || id.IsAnonymous() || id.ExpiredAt(now) {
		return "", false
	}
	return id.Token(), true
}

var (
	_ cache.IdentityProvider = (*SessionProvider)(nil)
	_ cache.IdentityProvider = ContextProvider{}
	_ cache.IdentityProvider = StaticProvider("")
)
