package dashboard

import (
	"slices"

	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

// State is the load state of a dashboard session
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
	StateLoadError State = "load_error"
)

// Query is the user's current station view selection
type Query struct {
	Criteria stations.Criteria `json:"criteria"`
	Mode     models.Metric     `json:"mode"`
}

// Session is everything the renderer needs to draw the dashboard
type Session struct {
	State     State                    `json:"state"`
	Query     Query                    `json:"query"`
	Stations  []models.StationSnapshot `json:"stations"`
	Selected  string                   `json:"selected_station_id,omitempty"`
	Metric    models.Metric            `json:"metric"`
	Series    []models.HourlyPoint     `json:"series"`
	LastError string                   `json:"last_error,omitempty"`
	LoadSeq   uint64                   `json:"load_seq"`
}

func (s Session) clone() Session {
	s.Stations = slices.Clone(s.Stations)
	s.Series = slices.Clone(s.Series)
	if s.Stations == nil {
		s.Stations = []models.StationSnapshot{}
	}
	if s.Series == nil {
		s.Series = []models.HourlyPoint{}
	}
	return s
}
