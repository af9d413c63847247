// Package handlers contains HTTP request handlers
package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	startTime time.Time
	version   string
	dash      Dashboard
}

func NewHealthHandler(dash Dashboard, version string) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), version: version, dash: dash}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	session := h.dash.Session()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "OK",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"version":       h.version,
		"uptime":        time.Since(h.startTime).String(),
		"session_state": session.State,
	})
}
