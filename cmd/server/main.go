// Package main is the entry point for the velibmap server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/randytsao24/velibmap/internal/api"
	"github.com/randytsao24/velibmap/internal/config"
	"github.com/randytsao24/velibmap/internal/dashboard"
	"github.com/randytsao24/velibmap/internal/location"
	"github.com/randytsao24/velibmap/internal/logging"
	"github.com/randytsao24/velibmap/internal/stations"
	"github.com/randytsao24/velibmap/internal/velib"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := logging.New(os.Stdout, level, cfg.IsDevelopment(), "velibmap", api.Version)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("shutting down")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	lang, err := cfg.Language()
	if err != nil {
		return err
	}

	feed := velib.NewStationFeed(cfg.GBFSInfoURL, cfg.GBFSStatusURL, cfg.HTTPTimeout, cfg.CacheTTL)
	defer feed.Close()

	geocoder := location.NewNominatimGeocoder(location.GeocoderConfig{
		BaseURL:        cfg.NominatimURL,
		UserAgent:      cfg.NominatimUserAgent,
		RequestsPerSec: cfg.GeocodeRPS,
		Timeout:        cfg.HTTPTimeout,
		CacheTTL:       cfg.CacheTTL,
	})
	defer geocoder.Close()

	dash := dashboard.New(dashboard.Config{
		Stations:   feed,
		History:    velib.NewHistoryClient(cfg.HistoryURL, cfg.HTTPTimeout),
		Geocoder:   geocoder,
		Repository: stations.NewRepository(lang),
		Location:   loc,
		Logger:     logger,
	})

	// Warm the batch so nearest queries work before the first /stations call.
	// A failure here is not fatal: the session stays in load_error and the
	// next request retries.
	go func() {
		if _, err := dash.VisibleStations(ctx, dashboard.Query{}); err != nil {
			logger.Warn("initial station load failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(cfg, dash, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 20*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"url", "http://localhost:"+cfg.Port,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed to start: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
