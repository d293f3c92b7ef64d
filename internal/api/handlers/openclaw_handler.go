package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/repositories"
	"missionctl/internal/platform/tenant"
)

const bearerPrefix = "Bearer "

// EventIngestor is the collaborator receiving admitted automation events
// tagged with the tenant identity the gateway resolved.
type EventIngestor interface {
	ReceiveAgentEvent(ctx context.Context, event map[string]interface{}, tenantID string) error
}

// OpenClawHandler is the webhook ingestion gateway: it authenticates the
// bearer token, resolves the tenant, applies per-tenant admission control,
// and forwards the event body downstream.
type OpenClawHandler struct {
	tokens         *repositories.APITokenRepository
	limits         *repositories.RateLimitRepository
	resolver       *tenant.Resolver
	ingestor       EventIngestor
	limitPerMinute int
}

func NewOpenClawHandler(
	tokens *repositories.APITokenRepository,
	limits *repositories.RateLimitRepository,
	resolver *tenant.Resolver,
	ingestor EventIngestor,
	limitPerMinute int,
) *OpenClawHandler {
	return &OpenClawHandler{
		tokens:         tokens,
		limits:         limits,
		resolver:       resolver,
		ingestor:       ingestor,
		limitPerMinute: limitPerMinute,
	}
}

func (h *OpenClawHandler) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	var tenantID string

	// An absent Authorization header is not an error; whether anonymous
	// callers get through is decided by the authRequired policy below.
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if raw != "" {
			record, err := h.tokens.GetByHash(auth.HashAPIToken(raw))
			if err != nil {
				log.Error().Err(err).Msg("token lookup failed")
				writeGatewayError(w, http.StatusInternalServerError, "Token lookup failed")
				return
			}
			// Unknown and revoked tokens are deliberately indistinguishable
			// so a 403 leaks nothing about which secrets were ever issued.
			if record == nil || record.Revoked() {
				writeGatewayError(w, http.StatusForbidden, "Invalid token")
				return
			}
			tenantID = record.TenantID

			// Best-effort usage stamp; must never block or fail the request.
			go func(tokenID string) {
				if err := h.tokens.UpdateLastUsed(tokenID); err != nil {
					log.Warn().Err(err).Str("token_id", tokenID).Msg("failed to record token usage")
				}
			}(record.ID)
		}
	}

	if h.resolver.AuthRequired() && tenantID == "" {
		writeGatewayError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	admitted, err := h.limits.CheckAndIncrement(tenant.RateLimitKey(tenantID), h.limitPerMinute, time.Now().UnixMilli())
	if err != nil {
		log.Error().Err(err).Msg("rate limit check failed")
		writeGatewayError(w, http.StatusInternalServerError, "Rate limit check failed")
		return
	}
	if !admitted {
		writeGatewayError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	var event map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.ingestor.ReceiveAgentEvent(r.Context(), event, tenantID); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("event ingestion failed")
		writeGatewayError(w, http.StatusInternalServerError, "Event ingestion failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
}

func writeGatewayError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": message})
}
