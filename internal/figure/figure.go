// Package figure builds chart and map figures for stations. Figures are
// go-plotly graph objects, so they serialise to the Plotly JSON shape
// ({"data": [...], "layout": {...}}) any Plotly front end can draw.
package figure

import (
	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
)

// displayTimeLayout reads like "Mon 02 January, 2006 at 15:04".
const displayTimeLayout = "Mon 02 January, 2006 at 15:04"

// FormatTimestamp renders a station timestamp for figure titles.
// Timestamps that cannot be parsed are shown as they are.
func FormatTimestamp(raw string) string {
	ts, err := bikeshare.ParseTimestamp(raw)
	if err != nil {
		return raw
	}
	return ts.Format(displayTimeLayout)
}
