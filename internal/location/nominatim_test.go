package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randytsao24/velibmap/internal/models"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) (*NominatimGeocoder, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	g := NewNominatimGeocoder(GeocoderConfig{
		BaseURL:        srv.URL,
		UserAgent:      "velibmap-test",
		RequestsPerSec: 1000,
		Timeout:        2 * time.Second,
		CacheTTL:       time.Minute,
	})
	t.Cleanup(g.Close)
	return g, &hits
}

func TestGeocodeFound(t *testing.T) {
	g, hits := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "10 rue de Rivoli, Paris" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		if ua := r.Header.Get("User-Agent"); ua != "velibmap-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte(`[{"lat":"48.8555","lon":"2.3601","display_name":"Rivoli"}]`))
	})

	p, err := g.Geocode(context.Background(), "10 rue de Rivoli, Paris")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if p.Lat != 48.8555 || p.Lon != 2.3601 {
		t.Errorf("point = %+v", p)
	}

	// second lookup is served from cache, case-insensitively
	if _, err := g.Geocode(context.Background(), "10 RUE DE RIVOLI, PARIS"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("upstream hits = %d, want 1", n)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	g, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := g.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if _, err := g.Geocode(context.Background(), "   "); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("blank address err = %v, want ErrNotFound", err)
	}
}

func TestGeocodeUpstreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
		{"bad coords", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lat":"abc","lon":"2.35"}]`))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGeocoder(t, tc.handler)
			_, err := g.Geocode(context.Background(), "Paris")
			var perr *models.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want ProviderError", err)
			}
			if perr.Source != "nominatim" {
				t.Errorf("source = %q", perr.Source)
			}
		})
	}
}
