package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// DefaultGeocodeTimeout bounds a single lookup when the caller's context has no deadline.
const DefaultGeocodeTimeout = 10 * time.Second

// geocoder reads its API key from a package variable, so the key is set once
// per process rather than per call.
var geocoderKeyMu sync.Mutex

func setGeocoderKey(key string) {
	geocoderKeyMu.Lock()
	defer geocoderKeyMu.Unlock()

	if geocoder.ApiKey != key {
		geocoder.ApiKey = key
	}
}

// GoogleGeocoder resolves city centres through the Google Geocoding API.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker
	logger  zerolog.Logger

	// geocode is swapped in tests.
	geocode func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder creates a GoogleGeocoder. A timeout <= 0 uses DefaultGeocodeTimeout.
func NewGoogleGeocoder(apiKey string, timeout time.Duration, logger zerolog.Logger) *GoogleGeocoder {
	if timeout <= 0 {
		timeout = DefaultGeocodeTimeout
	}
	if apiKey != "" {
		setGeocoderKey(apiKey)
	}

	return &GoogleGeocoder{
		name:    "google-geocoder",
		apiKey:  apiKey,
		timeout: timeout,
		circuit: newCircuitBreaker("google-geocoder"),
		logger:  logger.With().Str("provider", "google-geocoder").Logger(),
		geocode: geocoder.Geocoding,
	}
}

// LocateCity returns the latitude and longitude of city.
func (g *GoogleGeocoder) LocateCity(ctx context.Context, city string) (float64, float64, error) {
	if g.apiKey == "" {
		return 0, 0, fmt.Errorf("geocoder api key is not configured")
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.circuit.Execute(func() (interface{}, error) {
		return g.lookup(ctx, city)
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("city", city).Msg("geocoding failed")
		return 0, 0, upstreamError(g.name, "could not geocode city", err)
	}

	loc, ok := result.(geocoder.Location)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return loc.Latitude, loc.Longitude, nil
}

// lookup runs the blocking geocoder call and gives up when ctx is done.
// geocoder has no context support, so an abandoned call finishes in the background.
func (g *GoogleGeocoder) lookup(ctx context.Context, city string) (geocoder.Location, error) {
	type outcome struct {
		loc geocoder.Location
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		loc, err := g.geocode(geocoder.Address{City: city})
		done <- outcome{loc: loc, err: err}
	}()

	select {
	case o := <-done:
		return o.loc, o.err
	case <-ctx.Done():
		return geocoder.Location{}, ctx.Err()
	}
}
