package handlers

import (
	"net/http"
)

type RootHandler struct {
	version string
}

func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "velibmap",
		"description": "Vélib' station availability, nearest stations and hourly trends",
		"version":     h.version,
		"endpoints": map[string]string{
			"GET /api":                      "API information",
			"GET /health":                   "Health check",
			"GET /session":                  "Current dashboard state",
			"GET /stations":                 "Load, filter and sort stations (min_bikes, min_docks, area, mode)",
			"GET /stations/{stationId}":     "Station from the loaded batch",
			"GET /stations/nearest":         "Nearest loaded stations to lat/lon (limit)",
			"GET /stations/nearest/address": "Nearest loaded stations to a geocoded address (q, limit)",
			"GET /chart":                    "Hourly average series (station_id, mode)",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check /api for available routes",
	})
}
