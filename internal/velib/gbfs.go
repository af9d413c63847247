// Package velib fetches station and history data from the Vélib' Métropole
// open-data feeds (GBFS) and the availability history service.
package velib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/randytsao24/velibmap/internal/cache"
	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

const (
	DefaultInfoURL   = "https://velib-metropole-opendata.smovengo.cloud/opendata/Velib_Metropole/station_information.json"
	DefaultStatusURL = "https://velib-metropole-opendata.smovengo.cloud/opendata/Velib_Metropole/station_status.json"

	gbfsSource = "gbfs"
	infoKey    = "station_information"
)

// StationFeed merges GBFS station_information and station_status into
// station snapshots
type StationFeed struct {
	infoURL   string
	statusURL string
	client    *http.Client
	infoCache *cache.Cache[[]stationInfo]
}

// NewStationFeed creates a feed client. Station information changes rarely
// and is cached for infoTTL; status is fetched on every call.
func NewStationFeed(infoURL, statusURL string, timeout, infoTTL time.Duration) *StationFeed {
	return &StationFeed{
		infoURL:   infoURL,
		statusURL: statusURL,
		client:    &http.Client{Timeout: timeout},
		infoCache: cache.New[[]stationInfo](infoTTL),
	}
}

// FetchStations returns the merged snapshots that satisfy c, in feed order
func (f *StationFeed) FetchStations(ctx context.Context, c stations.Criteria) ([]models.StationSnapshot, error) {
	info, err := f.infoCache.Remember(infoKey, func() ([]stationInfo, error) {
		var resp gbfsResponse[stationInfo]
		if err := f.get(ctx, f.infoURL, &resp); err != nil {
			return nil, err
		}
		return resp.Data.Stations, nil
	})
	if err != nil {
		return nil, models.NewProviderError(gbfsSource, fmt.Errorf("station information: %w", err))
	}

	var status gbfsResponse[stationStatus]
	if err := f.get(ctx, f.statusURL, &status); err != nil {
		return nil, models.NewProviderError(gbfsSource, fmt.Errorf("station status: %w", err))
	}

	return merge(info, status.Data.Stations, c), nil
}

// Close releases the information cache
func (f *StationFeed) Close() {
	f.infoCache.Close()
}

func (f *StationFeed) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// merge joins information and status by station id. Status counts override
// information; stations without a status entry report zero availability.
func merge(info []stationInfo, status []stationStatus, c stations.Criteria) []models.StationSnapshot {
	byID := make(map[string]stationStatus, len(status))
	for _, s := range status {
		byID[string(s.StationID)] = s
	}

	result := make([]models.StationSnapshot, 0, len(info))
	for _, in := range info {
		snap := models.StationSnapshot{
			StationID:   string(in.StationID),
			StationCode: in.StationCode,
			Name:        in.Name,
			Lat:         in.Lat.ptr(),
			Lon:         in.Lon.ptr(),
		}
		if in.Capacity != nil {
			snap.Capacity = in.Capacity.intPtr()
		}
		if st, ok := byID[snap.StationID]; ok {
			snap.NumBikesAvailable = max(int(st.NumBikesAvailable.value()), 0)
			snap.NumDocksAvailable = max(int(st.NumDocksAvailable.value()), 0)
			if snap.StationCode == "" {
				snap.StationCode = st.StationCode
			}
		}
		if c.Matches(snap) {
			result = append(result, snap)
		}
	}
	return result
}

type gbfsResponse[T any] struct {
	LastUpdated int64 `json:"last_updated"`
	Data        struct {
		Stations []T `json:"stations"`
	} `json:"data"`
}

type stationInfo struct {
	StationID   flexID     `json:"station_id"`
	StationCode string     `json:"stationCode"`
	Name        string     `json:"name"`
	Lat         *flexFloat `json:"lat"`
	Lon         *flexFloat `json:"lon"`
	Capacity    *flexFloat `json:"capacity"`
}

type stationStatus struct {
	StationID         flexID     `json:"station_id"`
	StationCode       string     `json:"stationCode"`
	NumBikesAvailable *flexFloat `json:"num_bikes_available"`
	NumDocksAvailable *flexFloat `json:"num_docks_available"`
}

// flexID accepts a JSON string or number. Vélib' publishes numeric ids.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("station_id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Anything else
// (null, empty or non-numeric strings) decodes as absent.
type flexFloat struct {
	v     float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{v: v, valid: true}
	return nil
}

func (f *flexFloat) ptr() *float64 {
	if f == nil || !f.valid {
		return nil
	}
	v := f.v
	return &v
}

func (f *flexFloat) intPtr() *int {
	if f == nil || !f.valid {
		return nil
	}
	v := int(f.v)
	return &v
}

func (f *flexFloat) value() float64 {
	if f == nil || !f.valid {
		return 0
	}
	return f.v
}
