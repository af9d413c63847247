package stations

import (
	"cmp"
	"slices"

	"github.com/randytsao24/velibmap/internal/location"
	"github.com/randytsao24/velibmap/internal/models"
)

// Nearest returns up to limit stations ordered by ascending distance from
// point. Snapshots are deduplicated by StationID first; those without
// usable coordinates are skipped. A non-positive limit yields no results.
func Nearest(point models.Point, snapshots []models.StationSnapshot, limit int) []models.StationDistance {
	if limit <= 0 || !location.ValidCoordinate(point.Lat, point.Lon) {
		return []models.StationDistance{}
	}

	unique, _ := Dedupe(snapshots)

	results := make([]models.StationDistance, 0, len(unique))
	for _, s := range unique {
		lat, lon, ok := s.Coordinates()
		if !ok {
			continue
		}
		dist, err := location.DistanceKm(point.Lat, point.Lon, lat, lon)
		if err != nil {
			continue
		}
		results = append(results, models.StationDistance{
			StationSnapshot: s,
			DistanceKm:      dist,
		})
	}

	slices.SortStableFunc(results, func(a, b models.StationDistance) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	if limit < len(results) {
		results = results[:limit]
	}
	return results
}
