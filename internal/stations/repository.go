// Package stations holds the current station batch and answers filter,
// sort and proximity queries over it.
package stations

import (
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/randytsao24/velibmap/internal/models"
)

// Criteria selects stations by availability and name
type Criteria struct {
	MinBikes     int    `json:"min_bikes"`
	MinDocks     int    `json:"min_docks"`
	NameContains string `json:"name_contains"`
}

// Active reports whether any criterion differs from its default
func (c Criteria) Active() bool {
	return c.MinBikes > 0 || c.MinDocks > 0 || strings.TrimSpace(c.NameContains) != ""
}

// Matches reports whether s satisfies every criterion. The name test is a
// case-insensitive substring match.
func (c Criteria) Matches(s models.StationSnapshot) bool {
	if s.NumBikesAvailable < c.MinBikes || s.NumDocksAvailable < c.MinDocks {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(c.NameContains))
	return needle == "" || strings.Contains(strings.ToLower(s.Name), needle)
}

// Repository owns the current snapshot batch. Each Load replaces the
// batch wholesale; stored snapshots are never mutated.
type Repository struct {
	batch  []models.StationSnapshot
	byID   map[string]int
	locale language.Tag
	mu     sync.RWMutex
	loaded bool
}

// NewRepository creates an empty repository that sorts names by locale
func NewRepository(locale language.Tag) *Repository {
	return &Repository{
		byID:   make(map[string]int),
		locale: locale,
	}
}

// Load replaces the batch with snapshots deduplicated by StationID
func (r *Repository) Load(snapshots []models.StationSnapshot) {
	batch, byID := Dedupe(snapshots)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.batch = batch
	r.byID = byID
	r.loaded = true
}

// Dedupe keeps one snapshot per StationID. The last occurrence in the input
// wins; it takes the position where that id first appeared.
func Dedupe(snapshots []models.StationSnapshot) ([]models.StationSnapshot, map[string]int) {
	out := make([]models.StationSnapshot, 0, len(snapshots))
	byID := make(map[string]int, len(snapshots))

	for _, s := range snapshots {
		if i, seen := byID[s.StationID]; seen {
			out[i] = s
			continue
		}
		byID[s.StationID] = len(out)
		out = append(out, s)
	}
	return out, byID
}

// Filter returns the stations of the current batch matching c
func (r *Repository) Filter(c Criteria) []models.StationSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.StationSnapshot, 0, len(r.batch))
	for _, s := range r.batch {
		if c.Matches(s) {
			result = append(result, s)
		}
	}
	return result
}

// All returns a copy of the current batch
func (r *Repository) All() []models.StationSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.StationSnapshot, len(r.batch))
	copy(result, r.batch)
	return result
}

// Get returns a station by its ID
func (r *Repository) Get(stationID string) (models.StationSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[stationID]
	if !ok {
		return models.StationSnapshot{}, false
	}
	return r.batch[i], true
}

// Count returns the number of stations in the current batch
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.batch)
}

// Loaded returns true once a batch has been loaded
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Sort orders snapshots per policy using the repository's locale
func (r *Repository) Sort(snapshots []models.StationSnapshot, p Policy) []models.StationSnapshot {
	return Sort(snapshots, p, r.locale)
}

// Nearest returns the closest stations of the current batch to point
func (r *Repository) Nearest(point models.Point, limit int) []models.StationDistance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Nearest(point, r.batch, limit)
}
