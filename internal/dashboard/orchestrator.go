// Package dashboard composes the station repository, the aggregator and the
// upstream providers into the queries the dashboard renders.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/randytsao24/velibmap/internal/history"
	"github.com/randytsao24/velibmap/internal/models"
	"github.com/randytsao24/velibmap/internal/stations"
)

// ErrSuperseded is returned when a response arrives after a newer request
// of the same kind was issued. The response is discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Orchestrator owns the single dashboard session. Provider calls are made
// without holding the session lock; results are applied only if no newer
// request was issued meanwhile.
type Orchestrator struct {
	stations StationProvider
	history  HistoryProvider
	geocoder Geocoder
	repo     *stations.Repository
	loc      *time.Location
	logger   *slog.Logger

	mu        sync.Mutex
	session   Session
	loadSeq   uint64
	seriesSeq uint64
}

// Config wires an Orchestrator
type Config struct {
	Stations   StationProvider
	History    HistoryProvider
	Geocoder   Geocoder
	Repository *stations.Repository
	Location   *time.Location
	Logger     *slog.Logger
}

// New creates an orchestrator in the Idle state
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		stations: cfg.Stations,
		history:  cfg.History,
		geocoder: cfg.Geocoder,
		repo:     cfg.Repository,
		loc:      cfg.Location,
		logger:   logger.With("component", "dashboard"),
		session: Session{
			State:  StateIdle,
			Query:  Query{Mode: models.MetricBikes},
			Metric: models.MetricBikes,
		},
	}
}

// Session returns a copy of the current session
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.clone()
}

// Repository exposes the station batch backing the session
func (o *Orchestrator) Repository() *stations.Repository {
	return o.repo
}

// VisibleStations loads a fresh batch for q, then filters and sorts it.
// On a provider failure the previous stations stay visible and the session
// moves to LoadError. A response to a superseded request is discarded and
// ErrSuperseded returned alongside the current session.
func (o *Orchestrator) VisibleStations(ctx context.Context, q Query) (Session, error) {
	q = normalizeQuery(q)

	o.mu.Lock()
	o.loadSeq++
	seq := o.loadSeq
	o.session.State = StateLoading
	o.mu.Unlock()

	snapshots, err := o.stations.FetchStations(ctx, q.Criteria)

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.loadSeq {
		o.logger.Debug("discarding stale station load", "seq", seq, "latest", o.loadSeq)
		return o.session.clone(), ErrSuperseded
	}

	if err != nil {
		o.session.State = StateLoadError
		o.session.LastError = err.Error()
		o.logger.Warn("station load failed", "seq", seq, "error", err)
		return o.session.clone(), fmt.Errorf("loading stations: %w", err)
	}

	o.repo.Load(snapshots)
	visible := o.repo.Sort(o.repo.Filter(q.Criteria), stations.Policy{
		Mode:            q.Mode,
		HasActiveFilter: q.Criteria.Active(),
	})

	o.session.State = StateLoaded
	o.session.Query = q
	o.session.Stations = visible
	o.session.LastError = ""
	o.session.LoadSeq = seq
	if o.session.Selected != "" {
		if _, ok := o.repo.Get(o.session.Selected); !ok {
			o.session.Selected = ""
		}
	}

	o.logger.Info("stations loaded",
		"seq", seq,
		"fetched", len(snapshots),
		"unique", o.repo.Count(),
		"visible", len(visible),
	)
	return o.session.clone(), nil
}

// NearestToPoint ranks the currently loaded stations by distance to p.
// It never fetches.
func (o *Orchestrator) NearestToPoint(p models.Point, limit int) []models.StationDistance {
	return o.repo.Nearest(p, limit)
}

// NearestToAddress geocodes address and ranks the loaded stations around
// it. models.ErrNotFound is returned unchanged and leaves the session as is.
func (o *Orchestrator) NearestToAddress(ctx context.Context, address string, limit int) (models.Point, []models.StationDistance, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Point{}, nil, models.ErrNotFound
	}

	p, err := o.geocoder.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Point{}, nil, err
		}
		return models.Point{}, nil, fmt.Errorf("geocoding address: %w", err)
	}

	return p, o.repo.Nearest(p, limit), nil
}

// Series computes the hourly series for stationID (all stations when
// empty) and metric, replacing the session's previous series entirely.
func (o *Orchestrator) Series(ctx context.Context, stationID string, metric models.Metric) (Session, error) {
	if metric == "" {
		metric = models.MetricBikes
	}

	o.mu.Lock()
	o.seriesSeq++
	seq := o.seriesSeq
	o.mu.Unlock()

	samples, err := o.history.FetchHistory(ctx, stationID, metric)

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.seriesSeq {
		o.logger.Debug("discarding stale series", "seq", seq, "latest", o.seriesSeq)
		return o.session.clone(), ErrSuperseded
	}

	if err != nil {
		o.logger.Warn("history fetch failed", "station_id", stationID, "error", err)
		return o.session.clone(), fmt.Errorf("fetching history: %w", err)
	}

	o.session.Selected = stationID
	o.session.Metric = metric
	o.session.Series = history.HourlyAverage(samples, metric, o.loc)

	o.logger.Debug("series computed",
		"station_id", stationID,
		"metric", metric,
		"samples", len(samples),
		"points", len(o.session.Series),
	)
	return o.session.clone(), nil
}

func normalizeQuery(q Query) Query {
	if q.Mode == "" {
		q.Mode = models.MetricBikes
	}
	q.Criteria.MinBikes = max(q.Criteria.MinBikes, 0)
	q.Criteria.MinDocks = max(q.Criteria.MinDocks, 0)
	q.Criteria.NameContains = strings.TrimSpace(q.Criteria.NameContains)
	return q
}

// Station returns a station of the currently loaded batch
func (o *Orchestrator) Station(stationID string) (models.StationSnapshot, bool) {
	return o.repo.Get(stationID)
}
