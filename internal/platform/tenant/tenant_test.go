package tenant

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/models"
)

func TestResolve(t *testing.T) {
	resolver := NewResolver(false)

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "tenant-session"}}
	token := &models.APIToken{TenantID: "tenant-token"}

	// A validated token wins over the session identity.
	if got := resolver.Resolve(claims, token); got != "tenant-token" {
		t.Errorf("Expected tenant-token, got %q", got)
	}
	if got := resolver.Resolve(claims, nil); got != "tenant-session" {
		t.Errorf("Expected tenant-session, got %q", got)
	}
	if got := resolver.Resolve(nil, nil); got != "" {
		t.Errorf("Expected anonymous, got %q", got)
	}
}

func TestAllowUnscoped(t *testing.T) {
	if !NewResolver(false).AllowUnscoped() {
		t.Error("Expected unscoped access when auth is not required")
	}
	if NewResolver(true).AllowUnscoped() {
		t.Error("Expected no unscoped access when auth is required")
	}
}

func TestCanAccessRecord(t *testing.T) {
	cases := []struct {
		name           string
		recordTenantID string
		tenantID       string
		allowUnscoped  bool
		want           bool
	}{
		{"tagged record, matching tenant, unscoped on", "t1", "t1", true, true},
		{"tagged record, matching tenant, unscoped off", "t1", "t1", false, true},
		{"tagged record, other tenant, unscoped on", "t1", "t2", true, false},
		{"tagged record, other tenant, unscoped off", "t1", "t2", false, false},
		{"tagged record, anonymous caller, unscoped on", "t1", "", true, false},
		{"tagged record, anonymous caller, unscoped off", "t1", "", false, false},
		{"untagged record, unscoped on", "", "t1", true, true},
		{"untagged record, unscoped off", "", "t1", false, false},
		{"untagged record, anonymous caller, unscoped on", "", "", true, true},
		{"untagged record, anonymous caller, unscoped off", "", "", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessRecord(tc.recordTenantID, tc.tenantID, tc.allowUnscoped); got != tc.want {
				t.Errorf("CanAccessRecord(%q, %q, %v) = %v, want %v",
					tc.recordTenantID, tc.tenantID, tc.allowUnscoped, got, tc.want)
			}
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	if got := RateLimitKey("t1"); got != "t1" {
		t.Errorf("Expected t1, got %q", got)
	}
	if got := RateLimitKey(""); got != AnonymousKey {
		t.Errorf("Expected %q, got %q", AnonymousKey, got)
	}
}
