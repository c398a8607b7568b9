package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	DefaultIPLookupURL        = "https://api.ipify.org"
	DefaultGeolocationBaseURL = "https://ipapi.co"

	// MsgLocationFailed is shown when the caller's city cannot be resolved.
	MsgLocationFailed = "Could not get your location."
)

// IPGeoProvider implements bikeshare.Geolocator with ipify and ipapi.co.
type IPGeoProvider struct {
	name       string
	ipURL      string
	geoBaseURL string
	httpCfg    HTTPClientConfig
	ipCircuit  *gobreaker.CircuitBreaker
	geoCircuit *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

func NewIPGeoProvider(client *http.Client, ipURL, geoBaseURL string, logger zerolog.Logger) *IPGeoProvider {
	if ipURL == "" {
		ipURL = DefaultIPLookupURL
	}
	if geoBaseURL == "" {
		geoBaseURL = DefaultGeolocationBaseURL
	}

	return &IPGeoProvider{
		name:       "ipgeo",
		ipURL:      ipURL,
		geoBaseURL: strings.TrimRight(geoBaseURL, "/"),
		httpCfg:    HTTPClientConfig{Client: client},
		ipCircuit:  newCircuitBreaker("ipify"),
		geoCircuit: newCircuitBreaker("ipapi"),
		logger:     logger.With().Str("provider", "ipgeo").Logger(),
	}
}

// ResolveCityFromCallerIP looks up the public IP of this process and geolocates it.
// The returned city may be empty when the geolocation service does not know it.
func (p *IPGeoProvider) ResolveCityFromCallerIP(ctx context.Context) (string, error) {
	ip, err := p.publicIP(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("public ip lookup failed")
		return "", upstreamError(p.name, MsgLocationFailed, err)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.geoCircuit, fmt.Sprintf("%s/%s/json/", p.geoBaseURL, url.PathEscape(ip)))
	if err != nil {
		p.logger.Warn().Err(err).Str("ip", ip).Msg("geolocation request failed")
		return "", upstreamError(p.name, MsgLocationFailed, err)
	}
	defer resp.Body.Close()

	var payload struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", upstreamError(p.name, MsgLocationFailed, fmt.Errorf("decoding geolocation: %w", err))
	}

	return payload.City, nil
}

func (p *IPGeoProvider) publicIP(ctx context.Context) (string, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.ipCircuit, p.ipURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// An IPv6 address is at most 45 characters; anything past 64 bytes is not an address.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("reading ip: %w", err)
	}

	ip := strings.TrimSpace(string(body))
	if ip == "" {
		return "", fmt.Errorf("empty ip response")
	}
	return ip, nil
}
