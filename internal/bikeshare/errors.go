package bikeshare

import (
	"errors"
)

var (
	// ErrNoNetworkForCity is returned when the directory lists no network for a city.
	ErrNoNetworkForCity = errors.New("no bike company found")

	// ErrMissingUID is returned when a station has no extra.uid field.
	ErrMissingUID = errors.New("station is missing extra.uid")
)
