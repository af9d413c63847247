package handlers

import (
	"errors"
	"net/http"

	"github.com/randytsao24/velibmap/internal/dashboard"
	"github.com/randytsao24/velibmap/internal/models"
)

type ChartHandler struct {
	dash Dashboard
}

func NewChartHandler(dash Dashboard) *ChartHandler {
	return &ChartHandler{dash: dash}
}

// GetChart returns the hourly average series for a station, or across all
// stations when station_id is omitted
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	metric, err := models.ParseMetric(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid mode",
			"message": err.Error(),
		})
		return
	}

	stationID := r.URL.Query().Get("station_id")
	session, err := h.dash.Series(r.Context(), stationID, metric)
	superseded := errors.Is(err, dashboard.ErrSuperseded)
	if err != nil && !superseded {
		writeProviderError(w, "Failed to fetch history", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"station_id": session.Selected,
		"metric":     session.Metric,
		"superseded": superseded,
		"series":     session.Series,
		"count":      len(session.Series),
	})
}
