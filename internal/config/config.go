package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ErrMapTokenMissing is returned by RequireMapToken when ACCESS_MAP_TOKEN is unset.
var ErrMapTokenMissing = errors.New("ACCESS_MAP_TOKEN is not set")

type AppConfig struct {
	// Upstream endpoints.
	CityBikesBaseURL   string
	IPLookupURL        string
	GeolocationBaseURL string

	// Map rendering. MapAccessToken is only required by the map endpoint.
	MapAccessToken string
	MapStyle       string
	GeocoderAPIKey string // optional; enables geocoded map centres

	// DefaultCity is used when a request has no city and geolocation fails.
	DefaultCity string

	HTTPTimeout time.Duration

	// Directory probe.
	ProbeInterval   time.Duration
	ProbeMaxHistory int           // max number of probes kept (0 = unlimited)
	ProbeMaxAge     time.Duration // max age of probes (0 = unlimited)

	LogLevel zerolog.Level
	Port     string
}

// Load reads configuration from a .env file, if any, and the environment,
// with sensible defaults. The returned bool reports whether a .env file was read.
func Load() (*AppConfig, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &AppConfig{}

	cfg.CityBikesBaseURL = getenvDefault("CITYBIKES_BASE_URL", "http://api.citybik.es")
	cfg.IPLookupURL = getenvDefault("IP_LOOKUP_URL", "https://api.ipify.org")
	cfg.GeolocationBaseURL = getenvDefault("GEOLOCATION_BASE_URL", "https://ipapi.co")

	cfg.MapAccessToken = os.Getenv("ACCESS_MAP_TOKEN")
	cfg.MapStyle = getenvDefault("MAP_STYLE", "basic")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "Paris")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, dotenv, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "15m"); err != nil {
		return nil, dotenv, err
	}

	// Probe retention.
	cfg.ProbeMaxHistory = getenvInt("PROBE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.ProbeMaxAge, err = getenvDuration("PROBE_MAX_AGE", "24h"); err != nil {
		return nil, dotenv, err
	}

	cfg.LogLevel, err = zerolog.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, dotenv, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, dotenv, nil
}

// RequireMapToken returns the map access token or ErrMapTokenMissing.
func (c *AppConfig) RequireMapToken() (string, error) {
	if c.MapAccessToken == "" {
		return "", ErrMapTokenMissing
	}
	return c.MapAccessToken, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
