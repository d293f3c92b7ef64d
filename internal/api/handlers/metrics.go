package handlers

import (
	"fmt"
	"net/http"
)

// MetricsHandler exposes a minimal plaintext exposition. A real metrics
// pipeline is outside this service's scope.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "# HELP missionctl_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE missionctl_up gauge\n")
	fmt.Fprintf(w, "missionctl_up 1\n")
}
