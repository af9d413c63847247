package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/randytsao24/velibmap/internal/cache"
	"github.com/randytsao24/velibmap/internal/models"
)

const nominatimSource = "nominatim"

// GeocoderConfig configures NominatimGeocoder
type GeocoderConfig struct {
	BaseURL        string
	UserAgent      string
	RequestsPerSec float64
	Timeout        time.Duration
	CacheTTL       time.Duration
}

// NominatimGeocoder resolves free-text addresses with OSM Nominatim
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	cache     *cache.Cache[models.Point]
}

// NewNominatimGeocoder creates a geocoder. Nominatim's usage policy allows
// at most one request per second, which is the default rate.
func NewNominatimGeocoder(cfg GeocoderConfig) *NominatimGeocoder {
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		cache:     cache.New[models.Point](cfg.CacheTTL),
	}
}

// Geocode returns the best match for address, or models.ErrNotFound
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (models.Point, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return models.Point{}, models.ErrNotFound
	}

	return g.cache.Remember(key, func() (models.Point, error) {
		return g.search(ctx, address)
	})
}

// Close releases the result cache
func (g *NominatimGeocoder) Close() {
	g.cache.Close()
}

func (g *NominatimGeocoder) search(ctx context.Context, address string) (models.Point, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return models.Point{}, fmt.Errorf("waiting for geocoder rate limit: %w", err)
	}

	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Point{}, fmt.Errorf("building geocode request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return models.Point{}, models.NewProviderError(nominatimSource, fmt.Errorf("fetching geocode: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Point{}, models.NewProviderError(nominatimSource, fmt.Errorf("geocoder returned status %d", resp.StatusCode))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Point{}, models.NewProviderError(nominatimSource, fmt.Errorf("parsing response: %w", err))
	}

	if len(results) == 0 {
		return models.Point{}, models.ErrNotFound
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil || !ValidCoordinate(lat, lon) {
		return models.Point{}, models.NewProviderError(nominatimSource,
			fmt.Errorf("unusable coordinates %q,%q", results[0].Lat, results[0].Lon))
	}

	return models.Point{Lat: lat, Lon: lon}, nil
}
