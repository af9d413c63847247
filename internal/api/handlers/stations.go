package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/randytsao24/velibmap/internal/dashboard"
	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

const maxAvailabilityFilter = 1000

type StationHandler struct {
	dash Dashboard
}

func NewStationHandler(dash Dashboard) *StationHandler {
	return &StationHandler{dash: dash}
}

// GetStations loads a fresh batch and returns the filtered, sorted stations
func (h *StationHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	mode, err := models.ParseMetric(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid mode",
			"message": err.Error(),
		})
		return
	}

	area := r.URL.Query().Get("area")
	if area == "" {
		area = r.URL.Query().Get("arrondissement")
	}

	q := dashboard.Query{
		Criteria: stations.Criteria{
			MinBikes:     parseIntParam(r, "min_bikes", 0, 0, maxAvailabilityFilter),
			MinDocks:     parseIntParam(r, "min_docks", 0, 0, maxAvailabilityFilter),
			NameContains: strings.TrimSpace(area),
		},
		Mode: mode,
	}

	session, err := h.dash.VisibleStations(r.Context(), q)
	superseded := errors.Is(err, dashboard.ErrSuperseded)
	if err != nil && !superseded {
		writeProviderError(w, "Failed to load stations", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"state":      session.State,
		"query":      session.Query,
		"superseded": superseded,
		"stations":   stationViews(session.Stations, session.Query.Mode),
		"count":      len(session.Stations),
	})
}

// GetStation returns one station of the loaded batch
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	stationID := r.PathValue("stationId")

	station, ok := h.dash.Station(stationID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Station not found",
			"message": "Station " + stationID + " is not in the loaded batch",
		})
		return
	}

	mode := h.dash.Session().Query.Mode
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"station": stationViews([]models.StationSnapshot{station}, mode)[0],
	})
}

// GetSession returns the full dashboard state for the renderer
func (h *StationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := h.dash.Session()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"state":               session.State,
		"query":               session.Query,
		"stations":            stationViews(session.Stations, session.Query.Mode),
		"selected_station_id": session.Selected,
		"metric":              session.Metric,
		"series":              session.Series,
		"last_error":          session.LastError,
	})
}
