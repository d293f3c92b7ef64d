package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "missionctl/internal/api/context"
	"missionctl/internal/api/handlers"
	"missionctl/internal/api/middleware"
)

type Dependencies struct {
	OpenClawHandler  *handlers.OpenClawHandler
	APITokenHandler  *handlers.APITokenHandler
	BoardHandler     *handlers.BoardHandler
	HealthHandler    *handlers.HealthHandler
	MetricsHandler   *handlers.MetricsHandler
	AuthMiddleware   *middleware.AuthMiddleware
	TenantMiddleware *middleware.TenantMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Webhook ingestion. Authentication happens inside the gateway itself:
	// the bearer token is optional unless auth is required by policy.
	router.POST("/openclaw/event", wrap(deps.OpenClawHandler.ReceiveEvent))

	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	authMid := deps.AuthMiddleware
	tenantMid := deps.TenantMiddleware

	// API token management
	router.POST("/api/v1/tokens",
		chain(deps.APITokenHandler.Create, authMid.Handle, tenantMid.Handle))
	router.GET("/api/v1/tokens",
		chain(deps.APITokenHandler.List, authMid.Handle, tenantMid.Handle))
	router.DELETE("/api/v1/tokens/:token_id",
		chain(deps.APITokenHandler.Revoke, authMid.Handle, tenantMid.Handle))

	// Board reads
	router.GET("/api/v1/agents",
		chain(deps.BoardHandler.ListAgents, authMid.Handle, tenantMid.Handle))
	router.GET("/api/v1/tasks",
		chain(deps.BoardHandler.ListTasks, authMid.Handle, tenantMid.Handle))
	router.GET("/api/v1/activities",
		chain(deps.BoardHandler.ListActivities, authMid.Handle, tenantMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
