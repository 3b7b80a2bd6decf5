package auth

import (
	"testing"
	"time"
)

func TestIdentity_ExpiredAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Minute), false},
		{"exactly now", now, false},
		{"past", now.Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &Identity{Principal: "u", ExpiresAt: tt.expiresAt}
			if got := id.ExpiredAt(now); got != tt.want {
				t.Errorf("ExpiredAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentity_IsAnonymous(t *testing.T) {
	tests := []struct {
		name     string
		identity *Identity
		want     bool
	}{
		{"anonymous method", &Identity{Principal: "x", Method: AuthMethodAnonymous}, true},
		{"empty principal", &Identity{Method: AuthMethodJWT}, true},
		{"authenticated", &Identity{Principal: "user1", Method: AuthMethodJWT}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.IsAnonymous(); got != tt.want {
				t.Errorf("IsAnonymous() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentity_Token(t *testing.T) {
	tests := []struct {
		identity Identity
		want     string
	}{
		{Identity{Principal: "alice"}, "alice"},
		{Identity{Principal: "alice", TenantID: "acme"}, "acme:alice"},
	}

	for _, tt := range tests {
		if got := tt.identity.Token(); got != tt.want {
			t.Errorf("Token() = %q, want %q", got, tt.want)
		}
	}
}

func TestAnonymousIdentity(t *testing.T) {
	id := AnonymousIdentity()
	if id.Principal != "anonymous" {
		t.Errorf("Principal = %q, want anonymous", id.Principal)
	}
	if !id.IsAnonymous() {
		t.Error("AnonymousIdentity() should be anonymous")
	}
	if id.Claims == nil {
		t.Error("Claims should be initialized")
	}
}
