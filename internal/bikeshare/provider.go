package bikeshare

import (
	"context"
)

// Directory abstracts the bike-network directory API (e.g. CityBikes).
type Directory interface {
	FetchAllNetworks(ctx context.Context) ([]Network, error)
	FetchStations(ctx context.Context, network Network) ([]StationRaw, error)
}

// Geolocator resolves the city of the machine making the outbound calls.
type Geolocator interface {
	ResolveCityFromCallerIP(ctx context.Context) (string, error)
}
