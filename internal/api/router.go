package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/randytsao24/velibmap/internal/api/handlers"
	"github.com/randytsao24/velibmap/internal/config"
)

// Version is reported by /health and /api
const Version = "1.0.0"

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(cfg *config.Config, dash handlers.Dashboard, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dash, Version)
	rootHandler := handlers.NewRootHandler(Version)
	stationHandler := handlers.NewStationHandler(dash)
	nearestHandler := handlers.NewNearestHandler(dash, cfg.NearestLimit)
	chartHandler := handlers.NewChartHandler(dash)

	// Core routes
	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("/", rootHandler.NotFound)

	// Station routes
	mux.HandleFunc("GET /stations", stationHandler.GetStations)
	mux.HandleFunc("GET /stations/nearest", nearestHandler.GetNearest)
	mux.HandleFunc("GET /stations/nearest/address", nearestHandler.GetNearestToAddress)
	mux.HandleFunc("GET /stations/{stationId}", stationHandler.GetStation)

	// Dashboard state
	mux.HandleFunc("GET /chart", chartHandler.GetChart)
	mux.HandleFunc("GET /session", stationHandler.GetSession)

	// Upstream calls are bounded by the client timeout; leave headroom for
	// the geocoder's rate limiter.
	timeout := cfg.HTTPTimeout + 5*time.Second

	// Apply middleware stack
	handler := Chain(mux,
		Recovery(logger),
		Logging(logger),
		CORS("*"),
		Timeout(timeout),
	)

	return handler
}
