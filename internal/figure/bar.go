package figure

import (
	"fmt"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/i474232898/bikeshare-viewer/internal/bikeshare"
)

var (
	barLabels = []string{"Empty Slots", "Free Bikes", "ebikes"}
	barColors = []string{"blue", "green", "yellow"}
)

// RenderStationBarChart builds a bar chart of a station's empty slots, free bikes
// and e-bikes. It returns false when there is no station to draw.
func RenderStationBarChart(station *bikeshare.StationRecord) (*grob.Fig, bool) {
	if station == nil {
		return nil, false
	}

	title := fmt.Sprintf("Bike information for: %s - \nPayment type - %s on \n%s",
		station.StationName, station.Payment, FormatTimestamp(station.Timestamp))

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Bar{
				Type: grob.TraceTypeBar,
				X:    append([]string(nil), barLabels...),
				Y:    []int{station.EmptySlots, station.FreeBikes, station.Ebikes},
				Marker: &grob.BarMarker{
					Color: append([]string(nil), barColors...),
				},
			},
		},
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: grob.String(title)},
		},
	}, true
}
