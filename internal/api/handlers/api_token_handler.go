package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	apiContext "missionctl/internal/api/context"
	apiErrors "missionctl/internal/pkg/errors"
	"missionctl/internal/platform/auth"
	"missionctl/internal/platform/models"
	"missionctl/internal/platform/repositories"
)

type APITokenHandler struct {
	tokens *repositories.APITokenRepository
}

func NewAPITokenHandler(tokens *repositories.APITokenRepository) *APITokenHandler {
	return &APITokenHandler{tokens: tokens}
}

func (h *APITokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	plaintext, err := auth.GenerateAPIToken()
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	token := &models.APIToken{
		TokenHash:   auth.HashAPIToken(plaintext),
		TokenPrefix: auth.DisplayPrefix(plaintext),
		TenantID:    tenantID,
		Name:        req.Name,
	}

	if err := h.tokens.Create(token); err != nil {
		log.Error().Err(err).Msg("token persist failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to create token", nil)
		return
	}

	// The plaintext secret leaves the server exactly once, here.
	response := struct {
		ID          string `json:"id"`
		Token       string `json:"token"`
		TokenPrefix string `json:"token_prefix"`
		Name        string `json:"name,omitempty"`
		CreatedAt   int64  `json:"created_at"`
	}{
		ID:          token.ID,
		Token:       plaintext,
		TokenPrefix: token.TokenPrefix,
		Name:        token.Name,
		CreatedAt:   token.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func (h *APITokenHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)

	tokens, err := h.tokens.ListActiveByTenant(tenantID)
	if err != nil {
		log.Error().Err(err).Msg("token list failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to list tokens", nil)
		return
	}
	if tokens == nil {
		tokens = []*models.APIToken{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
}

func (h *APITokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	tokenID := params.ByName("token_id")

	token, err := h.tokens.GetByID(tokenID)
	if err != nil {
		log.Error().Err(err).Msg("token fetch failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to load token", nil)
		return
	}
	// A token outside the caller's tenant presents as missing.
	if token == nil || token.TenantID != tenantID {
		apiErrors.WriteError(w, http.StatusNotFound, apiErrors.ErrCodeNotFound, "Token not found", nil)
		return
	}

	if !token.Revoked() {
		if err := h.tokens.Revoke(tokenID); err != nil {
			log.Error().Err(err).Msg("token revoke failed")
			apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to revoke token", nil)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
