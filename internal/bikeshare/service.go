package bikeshare

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Service resolves cities to networks and turns live station feeds into records.
// It holds no data between calls; every operation fetches from the directory again.
type Service struct {
	directory   Directory
	geolocator  Geolocator
	defaultCity string
	logger      zerolog.Logger
}

// NewService creates a new Service. geolocator may be nil, in which case
// ResolveCity always falls back to defaultCity.
func NewService(directory Directory, geolocator Geolocator, defaultCity string, logger zerolog.Logger) *Service {
	return &Service{
		directory:   directory,
		geolocator:  geolocator,
		defaultCity: defaultCity,
		logger:      logger.With().Str("component", "bikeshare").Logger(),
	}
}

// FetchAllNetworks returns every network listed by the directory.
func (s *Service) FetchAllNetworks(ctx context.Context) ([]Network, error) {
	return s.directory.FetchAllNetworks(ctx)
}

// ListAllCityNames returns the city of every network, sorted. Duplicates are kept.
func (s *Service) ListAllCityNames(ctx context.Context) ([]string, error) {
	networks, err := s.FetchAllNetworks(ctx)
	if err != nil {
		return nil, err
	}

	cities := make([]string, 0, len(networks))
	for _, n := range networks {
		cities = append(cities, n.Location.City)
	}
	sort.Strings(cities)
	return cities, nil
}

// FindNetworksForCity returns the networks whose city equals city, ignoring case.
// The result is empty, not an error, when nothing matches.
func (s *Service) FindNetworksForCity(ctx context.Context, city string) ([]Network, error) {
	networks, err := s.FetchAllNetworks(ctx)
	if err != nil {
		return nil, err
	}

	matches := []Network{}
	for _, n := range networks {
		if strings.EqualFold(n.Location.City, city) {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

// FetchStationsForCity returns the live stations of the first network serving city.
// Other networks in the same city are ignored.
func (s *Service) FetchStationsForCity(ctx context.Context, city string) ([]StationRaw, error) {
	networks, err := s.FindNetworksForCity(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(networks) == 0 {
		s.logger.Error().Str("city", city).Msgf("No bike company found for %s", city)
		return nil, fmt.Errorf("%w for %s", ErrNoNetworkForCity, city)
	}
	if len(networks) > 1 {
		s.logger.Debug().
			Str("city", city).
			Int("networks", len(networks)).
			Str("network", networks[0].ID).
			Msg("several networks serve city; using the first")
	}

	return s.directory.FetchStations(ctx, networks[0])
}

// AvailableStations fetches and normalizes the stations of city.
func (s *Service) AvailableStations(ctx context.Context, city string) (StationCollection, error) {
	raw, err := s.FetchStationsForCity(ctx, city)
	if err != nil {
		return nil, err
	}

	records, err := NormalizeStations(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing stations for %s: %w", city, err)
	}
	return StationCollection(records), nil
}

// ListStationNames fetches the stations of city again and returns their names, sorted.
func (s *Service) ListStationNames(ctx context.Context, city string) ([]string, error) {
	raw, err := s.FetchStationsForCity(ctx, city)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, st := range raw {
		names = append(names, st.Name)
	}
	sort.Strings(names)
	return names, nil
}

// LocateStation fetches the stations of city and searches them for query.
func (s *Service) LocateStation(ctx context.Context, city, query string) (LocateResult, error) {
	stations, err := s.AvailableStations(ctx, city)
	if err != nil {
		return LocateResult{}, err
	}
	return FindStation(query, stations), nil
}

// ResolveCityFromCallerIP delegates to the geolocator.
func (s *Service) ResolveCityFromCallerIP(ctx context.Context) (string, error) {
	if s.geolocator == nil {
		return "", fmt.Errorf("geolocation is not configured")
	}
	return s.geolocator.ResolveCityFromCallerIP(ctx)
}

// ResolveCity returns city unchanged when set. Otherwise it geolocates the caller
// and falls back to the configured default city when that fails.
func (s *Service) ResolveCity(ctx context.Context, city string) string {
	if city = strings.TrimSpace(city); city != "" {
		return city
	}

	resolved, err := s.ResolveCityFromCallerIP(ctx)
	if err != nil || resolved == "" {
		s.logger.Warn().Err(err).Str("fallback", s.defaultCity).Msg("could not geolocate caller")
		return s.defaultCity
	}
	return resolved
}
