package tenant

import (
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/models"
)

// AnonymousKey is the rate-limit key used when no tenant identity resolves.
const AnonymousKey = "anonymous"

// Resolver derives the acting tenant identity from a session identity or a
// validated API token. The authRequired policy is injected at construction so
// both modes can be exercised side by side.
type Resolver struct {
	authRequired bool
}

func NewResolver(authRequired bool) *Resolver {
	return &Resolver{authRequired: authRequired}
}

func (r *Resolver) AuthRequired() bool {
	return r.authRequired
}

// AllowUnscoped reports whether records without a tenant tag are accessible.
// This changes the authorization policy, not identity resolution.
func (r *Resolver) AllowUnscoped() bool {
	return !r.authRequired
}

// Resolve yields the tenant identity, or "" when the caller is anonymous. A
// validated token wins over a session identity.
func (r *Resolver) Resolve(claims *auth.Claims, token *models.APIToken) string {
	if token != nil {
		return token.TenantID
	}
	if claims != nil {
		return claims.Subject
	}
	return ""
}

// RateLimitKey maps a resolved tenant identity to the limiter key.
func RateLimitKey(tenantID string) string {
	if tenantID == "" {
		return AnonymousKey
	}
	return tenantID
}

// CanAccessRecord is the uniform tenant authorization rule. Tagged records
// are visible only to their owning tenant; untagged records are visible only
// when unscoped access is allowed.
func CanAccessRecord(recordTenantID, tenantID string, allowUnscoped bool) bool {
	if recordTenantID != "" {
		return recordTenantID == tenantID
	}
	return allowUnscoped
}
