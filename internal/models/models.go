// Package models defines shared data types
package models

import (
	"fmt"
	"strings"
	"time"
)

// Metric selects which availability count a view ranks or charts
type Metric string

const (
	MetricBikes Metric = "bikes"
	MetricDocks Metric = "docks"
)

// ParseMetric accepts "bikes" or "docks" (case-insensitive). An empty
// string selects bikes.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MetricBikes):
		return MetricBikes, nil
	case string(MetricDocks):
		return MetricDocks, nil
	default:
		return "", fmt.Errorf("invalid metric %q (allowed: bikes, docks)", s)
	}
}

// Point is a WGS84 coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationSnapshot is one station's state at fetch time
type StationSnapshot struct {
	StationID         string   `json:"station_id"`
	StationCode       string   `json:"station_code,omitempty"`
	Name              string   `json:"name"`
	Lat               *float64 `json:"lat,omitempty"`
	Lon               *float64 `json:"lon,omitempty"`
	NumBikesAvailable int      `json:"num_bikes_available"`
	NumDocksAvailable int      `json:"num_docks_available"`
	Capacity          *int     `json:"capacity,omitempty"`
}

// Coordinates returns the raw lat/lon and whether both are present.
// Presence does not imply validity; see location.ValidCoordinate.
func (s StationSnapshot) Coordinates() (lat, lon float64, ok bool) {
	if s.Lat == nil || s.Lon == nil {
		return 0, 0, false
	}
	return *s.Lat, *s.Lon, true
}

// Available returns the count selected by metric
func (s StationSnapshot) Available(m Metric) int {
	if m == MetricDocks {
		return s.NumDocksAvailable
	}
	return s.NumBikesAvailable
}

// StationDistance is a StationSnapshot with its distance from a reference point
type StationDistance struct {
	StationSnapshot
	DistanceKm float64 `json:"distance_km"`
}

// HistorySample is one timestamped availability observation
type HistorySample struct {
	Timestamp      time.Time `json:"timestamp"`
	BikesAvailable int       `json:"num_bikes_available"`
	DocksAvailable int       `json:"num_docks_available"`
}

// Value returns the count selected by metric
func (h HistorySample) Value(m Metric) int {
	if m == MetricDocks {
		return h.DocksAvailable
	}
	return h.BikesAvailable
}

// HourlyPoint is the mean of one metric over an hour-of-day bucket
type HourlyPoint struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"avg"`
}
