package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/randytsao24/velibmap/internal/location"
	"github.com/randytsao24/velibmap/internal/models"
)

const maxNearestLimit = 10

type NearestHandler struct {
	dash         Dashboard
	defaultLimit int
}

func NewNearestHandler(dash Dashboard, defaultLimit int) *NearestHandler {
	if defaultLimit < 1 || defaultLimit > maxNearestLimit {
		defaultLimit = 3
	}
	return &NearestHandler{dash: dash, defaultLimit: defaultLimit}
}

// GetNearest ranks loaded stations around lat/lon
func (h *NearestHandler) GetNearest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "lat and lon query parameters are required",
		})
		return
	}

	lat, okLat := parseCoordParam(r, "lat")
	lon, okLon := parseCoordParam(r, "lon")
	if !okLat || !okLon || !location.ValidCoordinate(lat, lon) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid coordinates",
		})
		return
	}

	limit := parseIntParam(r, "limit", h.defaultLimit, 1, maxNearestLimit)
	nearest := h.dash.NearestToPoint(models.Point{Lat: lat, Lon: lon}, limit)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"point":    models.Point{Lat: lat, Lon: lon},
		"stations": nearestViews(nearest, h.dash.Session().Query.Mode),
		"count":    len(nearest),
	})
}

// GetNearestToAddress geocodes q and ranks loaded stations around it
func (h *NearestHandler) GetNearestToAddress(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("q"))
	if address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "q query parameter is required",
		})
		return
	}

	limit := parseIntParam(r, "limit", h.defaultLimit, 1, maxNearestLimit)
	point, nearest, err := h.dash.NearestToAddress(r.Context(), address, limit)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Address not found",
			"message": "No location matches " + address,
		})
		return
	}
	if err != nil {
		writeProviderError(w, "Failed to geocode address", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"address":  address,
		"point":    point,
		"stations": nearestViews(nearest, h.dash.Session().Query.Mode),
		"count":    len(nearest),
	})
}
