package bikeshare

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	networks    []Network
	stations    map[string][]StationRaw // keyed by href
	networksErr error

	networkCalls int
	stationHrefs []string
}

func (f *fakeDirectory) FetchAllNetworks(ctx context.Context) ([]Network, error) {
	f.networkCalls++
	if f.networksErr != nil {
		return nil, f.networksErr
	}
	return f.networks, nil
}

func (f *fakeDirectory) FetchStations(ctx context.Context, network Network) ([]StationRaw, error) {
	f.stationHrefs = append(f.stationHrefs, network.Href)
	return f.stations[network.Href], nil
}

type fakeGeolocator struct {
	city string
	err  error
}

func (f fakeGeolocator) ResolveCityFromCallerIP(ctx context.Context) (string, error) {
	return f.city, f.err
}

func network(id, city, href string) Network {
	return Network{ID: id, Href: href, Location: NetworkLocation{City: city}}
}

func TestService_ListAllCityNames(t *testing.T) {
	dir := &fakeDirectory{networks: []Network{
		network("b", "Paris", "/b"),
		network("a", "Lyon", "/a"),
		network("c", "Paris", "/c"),
	}}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	cities, err := svc.ListAllCityNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lyon", "Paris", "Paris"}, cities)
}

func TestService_ListAllCityNames_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeDirectory{networksErr: boom}, nil, "Paris", zerolog.Nop())

	cities, err := svc.ListAllCityNames(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, cities)
}

func TestService_FindNetworksForCity(t *testing.T) {
	dir := &fakeDirectory{networks: []Network{
		network("velib", "Paris", "/v2/networks/velib"),
		network("other", "Paris-Saclay", "/v2/networks/other"),
		network("velov", "Lyon", "/v2/networks/velov"),
	}}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	found, err := svc.FindNetworksForCity(context.Background(), "pARIS")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "velib", found[0].ID)

	none, err := svc.FindNetworksForCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestService_FetchStationsForCity_NoNetwork(t *testing.T) {
	dir := &fakeDirectory{networks: []Network{network("velov", "Lyon", "/a")}}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	stations, err := svc.FetchStationsForCity(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoNetworkForCity)
	assert.Nil(t, stations)
	assert.Empty(t, dir.stationHrefs)
}

func TestService_FetchStationsForCity_UsesFirstNetwork(t *testing.T) {
	dir := &fakeDirectory{
		networks: []Network{
			network("first", "Paris", "/first"),
			network("second", "Paris", "/second"),
		},
		stations: map[string][]StationRaw{
			"/first":  {{Name: "From first"}},
			"/second": {{Name: "From second"}},
		},
	}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	stations, err := svc.FetchStationsForCity(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "From first", stations[0].Name)
	assert.Equal(t, []string{"/first"}, dir.stationHrefs)
}

func TestService_AvailableStations(t *testing.T) {
	dir := &fakeDirectory{
		networks: []Network{network("a", "Paris", "/a")},
		stations: map[string][]StationRaw{
			"/a": {{Name: "Station A", FreeBikes: 3, EmptySlots: 5, Extra: StationExtra{UID: uidPtr("1")}}},
		},
	}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	stations, err := svc.AvailableStations(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, stations, 1)

	st := stations[0]
	assert.Equal(t, "Station A", st.StationName)
	assert.Equal(t, 3, st.FreeBikes)
	assert.Equal(t, 5, st.EmptySlots)
	assert.Equal(t, 0, st.Ebikes)
	assert.Equal(t, "No", st.Payment)
	assert.Equal(t, "1", st.UniqueID)
}

func TestService_AvailableStations_MissingUID(t *testing.T) {
	dir := &fakeDirectory{
		networks: []Network{network("a", "Paris", "/a")},
		stations: map[string][]StationRaw{"/a": {{Name: "No uid"}}},
	}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	_, err := svc.AvailableStations(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrMissingUID)
}

func TestService_ListStationNames_RefetchesAndSorts(t *testing.T) {
	dir := &fakeDirectory{
		networks: []Network{network("a", "Paris", "/a")},
		stations: map[string][]StationRaw{
			"/a": {{Name: "Charonne"}, {Name: "Alesia"}, {Name: "Bercy"}},
		},
	}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	names, err := svc.ListStationNames(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alesia", "Bercy", "Charonne"}, names)

	_, err = svc.ListStationNames(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, 2, dir.networkCalls)
}

func TestService_LocateStation(t *testing.T) {
	dir := &fakeDirectory{
		networks: []Network{network("a", "Paris", "/a")},
		stations: map[string][]StationRaw{
			"/a": {
				{Name: "Gare du Nord", Extra: StationExtra{UID: uidPtr("1")}},
				{Name: "Gare de Lyon", Extra: StationExtra{UID: uidPtr("2")}},
			},
		},
	}
	svc := NewService(dir, nil, "Paris", zerolog.Nop())

	result, err := svc.LocateStation(context.Background(), "Paris", "lyon")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, result.Match)
	assert.Equal(t, "2", result.Station.UniqueID)

	result, err = svc.LocateStation(context.Background(), "Paris", "gare")
	require.NoError(t, err)
	assert.Equal(t, MatchAmbiguous, result.Match)
}

func TestService_ResolveCity(t *testing.T) {
	dir := &fakeDirectory{}

	t.Run("explicit city wins", func(t *testing.T) {
		svc := NewService(dir, fakeGeolocator{city: "Berlin"}, "Paris", zerolog.Nop())
		assert.Equal(t, "Lyon", svc.ResolveCity(context.Background(), " Lyon "))
	})

	t.Run("geolocated city", func(t *testing.T) {
		svc := NewService(dir, fakeGeolocator{city: "Berlin"}, "Paris", zerolog.Nop())
		assert.Equal(t, "Berlin", svc.ResolveCity(context.Background(), ""))
	})

	t.Run("geolocation failure falls back", func(t *testing.T) {
		svc := NewService(dir, fakeGeolocator{err: errors.New("offline")}, "Paris", zerolog.Nop())
		assert.Equal(t, "Paris", svc.ResolveCity(context.Background(), ""))
	})

	t.Run("empty geolocated city falls back", func(t *testing.T) {
		svc := NewService(dir, fakeGeolocator{}, "Paris", zerolog.Nop())
		assert.Equal(t, "Paris", svc.ResolveCity(context.Background(), ""))
	})

	t.Run("no geolocator", func(t *testing.T) {
		svc := NewService(dir, nil, "Paris", zerolog.Nop())
		assert.Equal(t, "Paris", svc.ResolveCity(context.Background(), ""))

		_, err := svc.ResolveCityFromCallerIP(context.Background())
		assert.Error(t, err)
	})
}
