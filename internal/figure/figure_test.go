package figure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// plotDoc is the Plotly JSON document a front end receives.
type plotDoc struct {
	Data []struct {
		Type          string    `json:"type"`
		Mode          string    `json:"mode"`
		X             []string  `json:"x"`
		Y             []int     `json:"y"`
		Lat           []float64 `json:"lat"`
		Lon           []float64 `json:"lon"`
		Hovertext     []string  `json:"hovertext"`
		Hovertemplate string    `json:"hovertemplate"`
		Customdata    [][]any   `json:"customdata"`
		Marker        struct {
			Color      any    `json:"color"`
			Colorscale string `json:"colorscale"`
			Showscale  bool   `json:"showscale"`
		} `json:"marker"`
	} `json:"data"`
	Layout struct {
		Title struct {
			Text string `json:"text"`
		} `json:"title"`
		Mapbox *struct {
			Accesstoken string  `json:"accesstoken"`
			Style       string  `json:"style"`
			Zoom        float64 `json:"zoom"`
			Center      struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"center"`
		} `json:"mapbox"`
	} `json:"layout"`
}

func decodeFigure(t *testing.T, fig any) plotDoc {
	t.Helper()
	raw, err := json.Marshal(fig)
	require.NoError(t, err)

	var doc plotDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}
