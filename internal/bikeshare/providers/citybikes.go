package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
)

const (
	// DefaultCityBikesBaseURL is the CityBikes API host. Network hrefs are relative to it.
	DefaultCityBikesBaseURL = "http://api.citybik.es"

	// MsgDirectoryFailed is shown when the directory or a station feed cannot be read.
	MsgDirectoryFailed = "Failed to retrieve data from the API"
)

// CityBikesProvider implements bikeshare.Directory for the CityBikes API.
// The directory and each network's station feed trip independently.
type CityBikesProvider struct {
	name      string
	baseURL   string
	httpCfg   HTTPClientConfig
	directory *gobreaker.CircuitBreaker
	logger    zerolog.Logger

	feedsMu sync.Mutex
	feeds   map[string]*gobreaker.CircuitBreaker // keyed by href
}

func NewCityBikesProvider(client *http.Client, baseURL string, logger zerolog.Logger) *CityBikesProvider {
	if baseURL == "" {
		baseURL = DefaultCityBikesBaseURL
	}

	return &CityBikesProvider{
		name:      "citybikes",
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpCfg:   HTTPClientConfig{Client: client},
		directory: newCircuitBreaker("citybikes-directory"),
		feeds:     make(map[string]*gobreaker.CircuitBreaker),
		logger:    logger.With().Str("provider", "citybikes").Logger(),
	}
}

func (p *CityBikesProvider) feedCircuit(href string) *gobreaker.CircuitBreaker {
	p.feedsMu.Lock()
	defer p.feedsMu.Unlock()

	cb, ok := p.feeds[href]
	if !ok {
		cb = newCircuitBreaker("citybikes-feed " + href)
		p.feeds[href] = cb
	}
	return cb
}

// FetchAllNetworks lists every network known to the directory.
func (p *CityBikesProvider) FetchAllNetworks(ctx context.Context) ([]bikeshare.Network, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.directory, p.baseURL+"/v2/networks")
	if err != nil {
		p.logger.Error().Err(err).Msg("directory request failed")
		return nil, upstreamError(p.name, MsgDirectoryFailed, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Networks []bikeshare.Network `json:"networks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, upstreamError(p.name, MsgDirectoryFailed, fmt.Errorf("decoding networks: %w", err))
	}

	p.logger.Debug().Int("networks", len(payload.Networks)).Msg("fetched directory")
	return payload.Networks, nil
}

// FetchStations reads the live station feed of network.
func (p *CityBikesProvider) FetchStations(ctx context.Context, network bikeshare.Network) ([]bikeshare.StationRaw, error) {
	href := network.Href
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}

	resp, err := doRequest(ctx, p.httpCfg, p.feedCircuit(href), p.baseURL+href)
	if err != nil {
		p.logger.Error().Err(err).Str("network", network.ID).Msg("station feed request failed")
		return nil, upstreamError(p.name, MsgDirectoryFailed, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Network struct {
			Stations []bikeshare.StationRaw `json:"stations"`
		} `json:"network"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, upstreamError(p.name, MsgDirectoryFailed, fmt.Errorf("decoding stations of %s: %w", network.ID, err))
	}

	p.logger.Debug().
		Str("network", network.ID).
		Int("stations", len(payload.Network.Stations)).
		Msg("fetched station feed")
	return payload.Network.Stations, nil
}
