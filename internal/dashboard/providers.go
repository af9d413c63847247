package dashboard

import (
	"context"

	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

// StationProvider abstracts the station data source for testability.
type StationProvider interface {
	FetchStations(ctx context.Context, c stations.Criteria) ([]models.StationSnapshot, error)
}

// HistoryProvider abstracts the availability history source.
// An empty stationID requests history across all stations.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, stationID string, metric models.Metric) ([]models.HistorySample, error)
}

// Geocoder resolves an address to a point, or returns models.ErrNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Point, error)
}
