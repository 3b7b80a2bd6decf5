package auth

import "time"

// AuthMethod records where an identity came from.
type AuthMethod string

const (
	AuthMethodJWT       AuthMethod = "jwt"
	AuthMethodAnonymous AuthMethod = "anonymous"
)

// Identity is the user a cache key can be bound to.
type Identity struct {
	Principal string
	TenantID  string
	Roles     []string
	Method    AuthMethod

	// Claims holds every claim of the token the identity was parsed from.
	Claims map[string]any

	// ExpiresAt is zero for identities that never expire.
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// ExpiredAt reports whether the identity has expired by now.
func (id *Identity) ExpiredAt(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// IsAnonymous reports whether id names nobody in particular. Anonymous
// identities cannot scope cache keys.
func (id *Identity) IsAnonymous() bool {
	return id.Method == AuthMethodAnonymous || id.Principal == ""
}

// Token returns the cache scoping token: the principal, or
// "<tenant>:<principal>" when a tenant is set.
func (id *Identity) Token() string {
	if id.TenantID == "" {
		return id.Principal
	}
	return id.TenantID + ":" + id.Principal
}

// AnonymousIdentity returns the identity of a logged out user.
func AnonymousIdentity() *Identity {
	return &Identity{
		Principal: "anonymous",
		Method:    AuthMethodAnonymous,
		Claims:    map[string]any{},
	}
}
