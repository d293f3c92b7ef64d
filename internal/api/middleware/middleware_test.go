package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apiContext "missionctl/internal/api/context"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/config"
	"missionctl/internal/platform/tenant"
)

func sessionFor(t *testing.T, svc *auth.SessionService, tenantID string) string {
	t.Helper()
	token, err := svc.GenerateSessionToken(tenantID, "ops@example.com", "Ops", time.Hour)
	if err != nil {
		t.Fatalf("Failed to mint session token: %v", err)
	}
	return token
}

func TestAuthAndTenantMiddleware(t *testing.T) {
	sessions := auth.NewSessionService(config.JWTConfig{Secret: "test-secret"})
	authMid := NewAuthMiddleware(sessions)
	tenantMid := NewTenantMiddleware(tenant.NewResolver(false))

	handler := authMid.Handle(tenantMid.Handle(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Context().Value(apiContext.TenantID).(string)
		if tenantID != "tenant-a" {
			t.Errorf("Expected tenant-a, got %s", tenantID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Valid Session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+sessionFor(t, sessions, "tenant-a"))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
	})

	t.Run("Missing Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := auth.NewSessionService(config.JWTConfig{Secret: "other-secret"})
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+sessionFor(t, other, "tenant-a"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Empty Subject", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+sessionFor(t, sessions, ""))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		// A session without a tenant subject cannot act on tenant-scoped data.
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
	})
}
