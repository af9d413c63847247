// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/randytsao24/velibmap/internal/velib"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	GBFSInfoURL   string
	GBFSStatusURL string
	HistoryURL    string

	NominatimURL       string
	NominatimUserAgent string
	GeocodeRPS         float64

	CacheTTL     time.Duration
	HTTPTimeout  time.Duration
	Timezone     string
	Locale       string
	NearestLimit int
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GBFSInfoURL:   getEnv("GBFS_INFO_URL", velib.DefaultInfoURL),
		GBFSStatusURL: getEnv("GBFS_STATUS_URL", velib.DefaultStatusURL),
		HistoryURL:    getEnv("HISTORY_URL", "http://localhost:5000/station_chart"),

		NominatimURL:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "velibmap/1.0"),
		GeocodeRPS:         getFloatEnv("GEOCODE_RPS", 1),

		CacheTTL:     getDurationEnv("CACHE_TTL_SECONDS", 300) * time.Second,
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		Timezone:     getEnv("TIMEZONE", "Europe/Paris"),
		Locale:       getEnv("LOCALE", "fr"),
		NearestLimit: getIntEnv("NEAREST_LIMIT", 3),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present and parseable.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("invalid ENV %q (allowed: development, production)", c.Env)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.GBFSInfoURL == "" || c.GBFSStatusURL == "" {
		return errors.New("GBFS_INFO_URL and GBFS_STATUS_URL are required")
	}
	if c.HistoryURL == "" {
		return errors.New("HISTORY_URL is required")
	}
	if c.NominatimURL == "" {
		return errors.New("NOMINATIM_URL is required")
	}
	if c.GeocodeRPS <= 0 {
		return fmt.Errorf("GEOCODE_RPS must be positive, got %v", c.GeocodeRPS)
	}
	if c.NearestLimit < 1 {
		return fmt.Errorf("NEAREST_LIMIT must be at least 1, got %d", c.NearestLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", c.LogLevel)
	}
}

// Location resolves Timezone, the zone hour-of-day buckets are computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Language parses Locale, used to collate station names.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid LOCALE %q: %w", c.Locale, err)
	}
	return tag, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, defaultSeconds))
}
