package velib

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/randytsao24/velibmap/internal/models"
)

const historySource = "history"

// HistoryClient fetches raw availability samples from the history service.
// Responses are never cached: every chart request sees fresh samples.
type HistoryClient struct {
	baseURL string
	client  *http.Client
}

// NewHistoryClient creates a client for the history endpoint at baseURL
func NewHistoryClient(baseURL string, timeout time.Duration) *HistoryClient {
	return &HistoryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchHistory returns samples for stationID, or for every station when
// stationID is empty
func (c *HistoryClient) FetchHistory(ctx context.Context, stationID string, metric models.Metric) ([]models.HistorySample, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, models.NewProviderError(historySource, fmt.Errorf("parsing history URL: %w", err))
	}

	params := u.Query()
	if stationID != "" {
		params.Set("station_id", stationID)
	}
	if metric != "" {
		params.Set("mode", string(metric))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, models.NewProviderError(historySource, fmt.Errorf("building request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, models.NewProviderError(historySource, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewProviderError(historySource, fmt.Errorf("history service returned status %d", resp.StatusCode))
	}

	var raw []historyRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, models.NewProviderError(historySource, fmt.Errorf("parsing response: %w", err))
	}

	samples := make([]models.HistorySample, 0, len(raw))
	for _, r := range raw {
		if r.Timestamp.IsZero() {
			continue
		}
		samples = append(samples, models.HistorySample{
			Timestamp:      time.Time(r.Timestamp),
			BikesAvailable: max(int(r.Bikes.value()), 0),
			DocksAvailable: max(int(r.Docks.value()), 0),
		})
	}
	return samples, nil
}

type historyRecord struct {
	Timestamp flexTime   `json:"timestamp"`
	Bikes     *flexFloat `json:"num_bikes_available"`
	Docks     *flexFloat `json:"num_docks_available"`
}

// timestampLayouts are tried in order. Naive timestamps are taken as UTC,
// which is how the collector stores them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123,
}

// flexTime accepts RFC 3339, naive ISO 8601, HTTP dates and unix seconds.
// Unparseable values decode as the zero time and are dropped.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			*t = flexTime{}
			return nil
		}
		sec, frac := math.Modf(n)
		*t = flexTime(time.Unix(int64(sec), int64(frac*1e9)).UTC())
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = flexTime(time.Unix(sec, 0).UTC())
		return nil
	}
	*t = flexTime{}
	return nil
}

func (t flexTime) IsZero() bool {
	return time.Time(t).IsZero()
}
