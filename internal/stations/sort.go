package stations

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/randytsao24/velibmap/internal/models"
)

// Policy decides how a station list is ordered
type Policy struct {
	Mode            models.Metric
	HasActiveFilter bool
}

// Sort returns a sorted copy of snapshots. Without an active filter the
// order is alphabetical by name under locale collation; with one it is
// descending by the mode's availability count. Both orders are stable.
func Sort(snapshots []models.StationSnapshot, p Policy, locale language.Tag) []models.StationSnapshot {
	sorted := slices.Clone(snapshots)

	if !p.HasActiveFilter {
		// Collators keep internal buffers, so each call gets its own.
		c := collate.New(locale)
		slices.SortStableFunc(sorted, func(a, b models.StationSnapshot) int {
			return c.CompareString(a.Name, b.Name)
		})
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b models.StationSnapshot) int {
		return cmp.Compare(b.Available(p.Mode), a.Available(p.Mode))
	})
	return sorted
}
