package middleware

import (
	"context"
	"net/http"

	apiContext "missionctl/internal/api/context"
	"missionctl/internal/pkg/errors"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/tenant"
)

// TenantMiddleware resolves the acting tenant identity from the session
// claims and injects it for downstream handlers. Routes behind it require a
// concrete tenant; anonymous callers are turned away here.
type TenantMiddleware struct {
	resolver *tenant.Resolver
}

func NewTenantMiddleware(resolver *tenant.Resolver) *TenantMiddleware {
	return &TenantMiddleware{resolver: resolver}
}

func (m *TenantMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "No authentication claims found", nil)
			return
		}

		tenantID := m.resolver.Resolve(claims, nil)
		if tenantID == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.TenantID, tenantID)
		next(w, r.WithContext(ctx))
	}
}
