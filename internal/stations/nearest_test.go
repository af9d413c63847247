package stations

import (
	"fmt"
	"math"
	"testing"

	"github.com/randytsao24/velibmap/internal/models"
)

func TestNearestScenario(t *testing.T) {
	snaps := []models.StationSnapshot{
		at(station("1", "North", 1, 1), 48.86, 2.35),
		at(station("2", "East", 1, 1), 48.85, 2.36),
	}

	got := Nearest(models.Point{Lat: 48.85, Lon: 2.35}, snaps, 1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	// 0.01° of longitude at 48.85°N is shorter than 0.01° of latitude
	if got[0].StationID != "2" {
		t.Errorf("nearest = %s, want 2", got[0].StationID)
	}
	if math.Abs(got[0].DistanceKm-0.7317) > 0.001 {
		t.Errorf("distance = %f, want ~0.7317", got[0].DistanceKm)
	}
}

func TestNearestSkipsInvalidAndDedupes(t *testing.T) {
	snaps := []models.StationSnapshot{
		at(station("1", "A", 0, 0), 48.851, 2.351),
		station("2", "no coords", 0, 0),
		at(station("3", "NaN", 0, 0), math.NaN(), 2.35),
		at(station("4", "out of range", 0, 0), 123, 2.35),
		at(station("1", "A moved", 0, 0), 48.90, 2.40),
		at(station("5", "E", 0, 0), 48.852, 2.352),
	}

	got := Nearest(models.Point{Lat: 48.85, Lon: 2.35}, snaps, 10)

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 valid unique stations", len(got))
	}
	// station 1 keeps its last occurrence, which is further away than 5
	if got[0].StationID != "5" || got[1].StationID != "1" {
		t.Errorf("order = %s,%s; want 5,1", got[0].StationID, got[1].StationID)
	}
	if got[1].Name != "A moved" {
		t.Errorf("station 1 name = %q, want last occurrence", got[1].Name)
	}
}

func TestNearestBounds(t *testing.T) {
	var snaps []models.StationSnapshot
	for i := 0; i < 20; i++ {
		snaps = append(snaps, at(station(fmt.Sprint(i), fmt.Sprint("S", i), 0, 0), 48.80+float64(i)*0.005, 2.30+float64(i%4)*0.01))
	}
	point := models.Point{Lat: 48.85, Lon: 2.33}

	for _, limit := range []int{1, 3, 5, 20, 50} {
		got := Nearest(point, snaps, limit)
		want := min(limit, len(snaps))
		if len(got) != want {
			t.Errorf("limit %d: len = %d, want %d", limit, len(got), want)
		}
		seen := make(map[string]bool)
		for i, sd := range got {
			if seen[sd.StationID] {
				t.Errorf("limit %d: duplicate %s", limit, sd.StationID)
			}
			seen[sd.StationID] = true
			if i > 0 && sd.DistanceKm < got[i-1].DistanceKm {
				t.Errorf("limit %d: distances decrease at %d", limit, i)
			}
		}
	}

	if got := Nearest(point, snaps, 0); len(got) != 0 {
		t.Errorf("limit 0 returned %d results", len(got))
	}
}

func TestNearestNoValidCandidates(t *testing.T) {
	snaps := []models.StationSnapshot{station("1", "A", 0, 0)}
	if got := Nearest(models.Point{Lat: 48.85, Lon: 2.35}, snaps, 3); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
