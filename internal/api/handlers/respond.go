package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// writeProviderError reports an upstream failure. Provider errors are
// non-fatal: the client keeps showing its last good state.
func writeProviderError(w http.ResponseWriter, what string, err error) {
	status := http.StatusInternalServerError
	var perr *models.ProviderError
	if errors.As(err, &perr) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"error":   what,
		"message": err.Error(),
	})
}

func parseIntParam(r *http.Request, name string, defaultVal, min, max int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}

	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func parseCoordParam(r *http.Request, name string) (float64, bool) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// stationView is a snapshot annotated with its marker category
type stationView struct {
	models.StationSnapshot
	Availability stations.Availability `json:"availability"`
}

type nearestView struct {
	models.StationDistance
	Availability stations.Availability `json:"availability"`
}

func stationViews(list []models.StationSnapshot, mode models.Metric) []stationView {
	views := make([]stationView, len(list))
	for i, s := range list {
		views[i] = stationView{
			StationSnapshot: s,
			Availability:    stations.Classify(s.Available(mode)),
		}
	}
	return views
}

func nearestViews(list []models.StationDistance, mode models.Metric) []nearestView {
	views := make([]nearestView, len(list))
	for i, s := range list {
		views[i] = nearestView{
			StationDistance: s,
			Availability:    stations.Classify(s.Available(mode)),
		}
	}
	return views
}
