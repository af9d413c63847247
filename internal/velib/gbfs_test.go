package velib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

const infoJSON = `{
  "last_updated": 1700000000,
  "data": {"stations": [
    {"station_id": 213688169, "stationCode": "16107", "name": "Benjamin Godard - Victor Hugo", "lat": 48.865983, "lon": 2.275725, "capacity": 35},
    {"station_id": "36255", "name": "Toudouze - Clauzel", "lat": "48.87929", "lon": "2.33736", "capacity": 21},
    {"station_id": 99, "name": "Ghost station", "lat": null, "lon": "n/a"}
  ]}
}`

const statusJSON = `{
  "last_updated": 1700000060,
  "data": {"stations": [
    {"station_id": 213688169, "num_bikes_available": 4, "num_docks_available": 31},
    {"station_id": 36255, "stationCode": "9020", "num_bikes_available": 0, "num_docks_available": 21}
  ]}
}`

func newFeedServer(t *testing.T, info, status string) (*httptest.Server, *int32) {
	t.Helper()
	var infoHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/station_information.json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&infoHits, 1)
		w.Write([]byte(info))
	})
	mux.HandleFunc("/station_status.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(status))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &infoHits
}

func newFeed(t *testing.T, srv *httptest.Server) *StationFeed {
	t.Helper()
	f := NewStationFeed(srv.URL+"/station_information.json", srv.URL+"/station_status.json", 2*time.Second, time.Minute)
	t.Cleanup(f.Close)
	return f
}

func TestFetchStationsMerges(t *testing.T) {
	srv, _ := newFeedServer(t, infoJSON, statusJSON)
	feed := newFeed(t, srv)

	got, err := feed.FetchStations(context.Background(), stations.Criteria{})
	if err != nil {
		t.Fatalf("FetchStations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	first := got[0]
	if first.StationID != "213688169" || first.StationCode != "16107" {
		t.Errorf("first id/code = %s/%s", first.StationID, first.StationCode)
	}
	if first.NumBikesAvailable != 4 || first.NumDocksAvailable != 31 {
		t.Errorf("first counts = %d/%d", first.NumBikesAvailable, first.NumDocksAvailable)
	}
	if first.Capacity == nil || *first.Capacity != 35 {
		t.Errorf("first capacity = %v", first.Capacity)
	}

	second := got[1]
	if lat, lon, ok := second.Coordinates(); !ok || lat != 48.87929 || lon != 2.33736 {
		t.Errorf("string coordinates not parsed: %v %v %v", lat, lon, ok)
	}
	if second.StationCode != "9020" {
		t.Errorf("station code from status = %q", second.StationCode)
	}

	ghost := got[2]
	if _, _, ok := ghost.Coordinates(); ok {
		t.Error("ghost station should have no coordinates")
	}
	if ghost.NumBikesAvailable != 0 || ghost.NumDocksAvailable != 0 {
		t.Error("station missing from status should default to zero availability")
	}
}

func TestFetchStationsAppliesCriteria(t *testing.T) {
	srv, _ := newFeedServer(t, infoJSON, statusJSON)
	feed := newFeed(t, srv)

	got, err := feed.FetchStations(context.Background(), stations.Criteria{MinBikes: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].StationID != "213688169" {
		t.Errorf("got %+v", got)
	}

	got, err = feed.FetchStations(context.Background(), stations.Criteria{NameContains: "clauzel"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].StationID != "36255" {
		t.Errorf("area filter got %+v", got)
	}
}

func TestFetchStationsCachesInformation(t *testing.T) {
	srv, infoHits := newFeedServer(t, infoJSON, statusJSON)
	feed := newFeed(t, srv)

	for i := 0; i < 3; i++ {
		if _, err := feed.FetchStations(context.Background(), stations.Criteria{}); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(infoHits); n != 1 {
		t.Errorf("station_information fetched %d times, want 1", n)
	}
}

func TestFetchStationsProviderError(t *testing.T) {
	tests := []struct {
		name         string
		info, status string
	}{
		{"bad info", `{"data":`, statusJSON},
		{"bad status", infoJSON, `not json`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newFeedServer(t, tc.info, tc.status)
			feed := newFeed(t, srv)

			_, err := feed.FetchStations(context.Background(), stations.Criteria{})
			var perr *models.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want ProviderError", err)
			}
		})
	}
}

func TestFetchStationsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	feed := NewStationFeed(srv.URL, srv.URL, time.Second, time.Minute)
	defer feed.Close()

	_, err := feed.FetchStations(context.Background(), stations.Criteria{})
	var perr *models.ProviderError
	if !errors.As(err, &perr) || perr.Source != "gbfs" {
		t.Errorf("err = %v, want gbfs ProviderError", err)
	}
}
