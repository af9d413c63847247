package handlers

import (
	"context"

	"github.com/randytsao24/velibmap/internal/dashboard"
	"github.com/randytsao24/velibmap/internal/models"
)

// Dashboard abstracts the query orchestrator for testability.
type Dashboard interface {
	Session() dashboard.Session
	VisibleStations(ctx context.Context, q dashboard.Query) (dashboard.Session, error)
	Station(stationID string) (models.StationSnapshot, bool)
	NearestToPoint(p models.Point, limit int) []models.StationDistance
	NearestToAddress(ctx context.Context, address string, limit int) (models.Point, []models.StationDistance, error)
	Series(ctx context.Context, stationID string, metric models.Metric) (dashboard.Session, error)
}
