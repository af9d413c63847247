// Package history turns availability samples into chartable series
package history

import (
	"time"

	"github.com/randytsao24/velibmap/internal/models"
)

// HoursPerDay is the number of hour-of-day buckets
const HoursPerDay = 24

// HourlyAverage groups samples by hour-of-day in loc (time.Local when nil),
// ignoring the calendar date, and returns the mean of metric for every hour
// that has at least one sample, ascending by hour.
func HourlyAverage(samples []models.HistorySample, metric models.Metric, loc *time.Location) []models.HourlyPoint {
	if loc == nil {
		loc = time.Local
	}

	var (
		sums   [HoursPerDay]int64
		counts [HoursPerDay]int
	)
	for _, s := range samples {
		h := s.Timestamp.In(loc).Hour()
		sums[h] += int64(s.Value(metric))
		counts[h]++
	}

	points := make([]models.HourlyPoint, 0, HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		if counts[h] == 0 {
			continue
		}
		points = append(points, models.HourlyPoint{
			Hour:    h,
			Average: float64(sums[h]) / float64(counts[h]),
		})
	}
	return points
}
