package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	apiContext "missionctl/internal/api/context"
	"missionctl/internal/engine/ingest"
	apiErrors "missionctl/internal/pkg/errors"
)

const activityFeedLimit = 50

// BoardHandler serves the read side of the dashboard: agents, the task
// pipeline, and the activity feed, all tenant-filtered.
type BoardHandler struct {
	ingest *ingest.Service
}

func NewBoardHandler(ingest *ingest.Service) *BoardHandler {
	return &BoardHandler{ingest: ingest}
}

func (h *BoardHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)

	agents, err := h.ingest.ListAgents(tenantID)
	if err != nil {
		log.Error().Err(err).Msg("agent list failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to list agents", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agents)
}

func (h *BoardHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)

	tasks, err := h.ingest.ListTasks(tenantID)
	if err != nil {
		log.Error().Err(err).Msg("task list failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to list tasks", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

func (h *BoardHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(apiContext.TenantID).(string)

	activities, err := h.ingest.ListActivities(tenantID, activityFeedLimit)
	if err != nil {
		log.Error().Err(err).Msg("activity list failed")
		apiErrors.WriteError(w, http.StatusInternalServerError, apiErrors.ErrCodeInternal, "Failed to list activities", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}
