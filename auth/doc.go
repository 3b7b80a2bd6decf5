// Package auth resolves the identity that scopes identity-bound cache keys.
//
// An Identity is established from a verified JWT (ParseToken), attached to a
// context, or fixed up front. The providers in this package turn it into the
// opaque token the cache prepends to logical keys: the principal, prefixed by
// the tenant when one is set.
package auth
