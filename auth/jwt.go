package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures token verification.
type JWTConfig struct {
	// Issuer is the expected token issuer (iss claim).
	Issuer string `mapstructure:"issuer"`

	// Audience is the expected token audience (aud claim).
	Audience string `mapstructure:"audience"`

	// PrincipalClaim is the claim containing the user principal.
	// Default: "sub"
	PrincipalClaim string `mapstructure:"principal_claim"`

	// TenantClaim is the claim containing the tenant ID.
	TenantClaim string `mapstructure:"tenant_claim"`

	// RolesClaim is the claim containing user roles.
	RolesClaim string `mapstructure:"roles_claim"`
}

// KeyProvider retrieves signing keys for JWT validation.
type KeyProvider interface {
	// GetKey returns the key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider provides a static HMAC signing key.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	if len(p.key) == 0 {
		return nil, ErrKeyNotFound
	}
	return p.key, nil
}

// bearerToken strips surrounding space and an optional "Bearer" scheme.
// A bare scheme yields an empty token.
func bearerToken(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "Bearer"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		s = strings.TrimSpace(rest)
	}
	return s
}

// ParseToken verifies a JWT and builds the identity it carries. A leading
// "Bearer " is ignored.
func ParseToken(ctx context.Context, tokenString string, config JWTConfig, keys KeyProvider) (*Identity, error) {
	tokenString = bearerToken(tokenString)
	if tokenString == "" {
		return nil, ErrMissingCredentials
	}
	if keys == nil {
		return nil, ErrKeyNotFound
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512", "RS256", "ES256"})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		return keys.GetKey(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, classifyJWTError(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	identity := buildIdentity(claims, config)
	if identity.Principal == "" {
		return nil, fmt.Errorf("%w: claim %q is empty", ErrInvalidCredentials, config.PrincipalClaim)
	}
	return identity, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, ErrKeyNotFound):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
}

func buildIdentity(claims jwt.MapClaims, config JWTConfig) *Identity {
	identity := &Identity{
		Method: AuthMethodJWT,
		Claims: make(map[string]any, len(claims)),
	}

	for k, v := range claims {
		identity.Claims[k] = v
	}

	if principal, ok := claims[config.PrincipalClaim].(string); ok {
		identity.Principal = principal
	}

	if config.TenantClaim != "" {
		if tenant, ok := claims[config.TenantClaim].(string); ok {
			identity.TenantID = tenant
		}
	}

	if config.RolesClaim != "" {
		if roles, ok := claims[config.RolesClaim].([]any); ok {
			identity.Roles = make([]string, 0, len(roles))
			for _, r := range roles {
				if s, ok := r.(string); ok {
					identity.Roles = append(identity.Roles, s)
				}
			}
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}

	return identity
}

// Ensure StaticKeyProvider implements KeyProvider
var _ KeyProvider = (*StaticKeyProvider)(nil)
