package figure

import (
	"context"
	"errors"
	"fmt"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/rs/zerolog"

	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
)

var (
	// ErrMissingMapToken is returned by NewMapRenderer without an access token.
	ErrMissingMapToken = errors.New("ACCESS_MAP_TOKEN is not configured")

	// ErrNoStations is returned when asked to map an empty collection.
	ErrNoStations = errors.New("no stations to map")
)

const (
	DefaultMapStyle = "basic"
	defaultMapZoom  = 12
	mapColorScale   = "Plasma"
	mapMarkerSize   = 9
	mapHoverFormat  = "<b>%{hovertext}</b><br>" +
		"empty_slots=%{customdata[0]}<br>" +
		"free_bikes=%{customdata[1]}<br>" +
		"ebikes=%{customdata[2]}<br>" +
		"payment=%{customdata[3]}<extra></extra>"
)

// CityLocator finds the centre of a city.
type CityLocator interface {
	LocateCity(ctx context.Context, city string) (lat, lon float64, err error)
}

// MapRenderer draws every station of a city on a tile map.
type MapRenderer struct {
	token   string
	style   string
	locator CityLocator
	logger  zerolog.Logger
}

// MapOption customises a MapRenderer.
type MapOption func(*MapRenderer)

// WithMapStyle sets the mapbox style name.
func WithMapStyle(style string) MapOption {
	return func(r *MapRenderer) {
		if style != "" {
			r.style = style
		}
	}
}

// WithCityLocator centres maps on the located city instead of the station centroid.
func WithCityLocator(locator CityLocator) MapOption {
	return func(r *MapRenderer) {
		r.locator = locator
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(logger zerolog.Logger) MapOption {
	return func(r *MapRenderer) {
		r.logger = logger
	}
}

// NewMapRenderer creates a MapRenderer. The access token is required.
func NewMapRenderer(token string, opts ...MapOption) (*MapRenderer, error) {
	if token == "" {
		return nil, ErrMissingMapToken
	}

	r := &MapRenderer{
		token:  token,
		style:  DefaultMapStyle,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RenderCityMap plots one point per station colored by free bikes. The title uses
// the timestamp of the first station.
func (r *MapRenderer) RenderCityMap(ctx context.Context, stations bikeshare.StationCollection, city string) (*grob.Fig, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoStations, city)
	}

	n := len(stations)
	lat := make([]float64, 0, n)
	lon := make([]float64, 0, n)
	names := make([]string, 0, n)
	details := make([][]any, 0, n)
	freeBikes := make([]int, 0, n)

	for _, st := range stations {
		lat = append(lat, st.Latitude)
		lon = append(lon, st.Longitude)
		names = append(names, st.StationName)
		details = append(details, []any{st.EmptySlots, st.FreeBikes, st.Ebikes, st.Payment})
		freeBikes = append(freeBikes, st.FreeBikes)
	}

	title := fmt.Sprintf("Map Showing Number of Bikes in %s at %s", city, FormatTimestamp(stations[0].Timestamp))
	centerLat, centerLon := r.center(ctx, city, stations)

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Scattermapbox{
				Type:          grob.TraceTypeScattermapbox,
				Mode:          "markers",
				Lat:           lat,
				Lon:           lon,
				Hovertext:     names,
				Customdata:    details,
				Hovertemplate: mapHoverFormat,
				Marker: &grob.ScattermapboxMarker{
					Color:      freeBikes,
					Colorscale: mapColorScale,
					Showscale:  grob.True,
					Size:       mapMarkerSize,
					Colorbar: &grob.ScattermapboxMarkerColorbar{
						Title: &grob.ScattermapboxMarkerColorbarTitle{Text: "free_bikes"},
					},
				},
			},
		},
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: grob.String(title)},
			Mapbox: &grob.LayoutMapbox{
				Accesstoken: grob.String(r.token),
				Style:       r.style,
				Zoom:        defaultMapZoom,
				Center: &grob.LayoutMapboxCenter{
					Lat: centerLat,
					Lon: centerLon,
				},
			},
		},
	}, nil
}

func (r *MapRenderer) center(ctx context.Context, city string, stations bikeshare.StationCollection) (float64, float64) {
	if r.locator != nil {
		lat, lon, err := r.locator.LocateCity(ctx, city)
		if err == nil {
			return lat, lon
		}
		r.logger.Warn().Err(err).Str("city", city).Msg("falling back to station centroid")
	}

	summary := bikeshare.Summarize(city, stations)
	return summary.CenterLat, summary.CenterLon
}
