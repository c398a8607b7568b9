package bikeshare

// Summarize combines a city's stations into totals and a centroid.
// The timestamp is the newest parseable station timestamp; unparseable ones are skipped.
func Summarize(city string, stations StationCollection) Summary {
	summary := Summary{City: city, Stations: len(stations)}
	if len(stations) == 0 {
		return summary
	}

	var sumLat, sumLon float64
	for _, st := range stations {
		summary.FreeBikes += st.FreeBikes
		summary.EmptySlots += st.EmptySlots
		summary.Ebikes += st.Ebikes

		sumLat += st.Latitude
		sumLon += st.Longitude

		ts, err := ParseTimestamp(st.Timestamp)
		if err != nil {
			continue
		}
		if ts.After(summary.Timestamp) {
			summary.Timestamp = ts
		}
	}

	n := float64(len(stations))
	summary.CenterLat = sumLat / n
	summary.CenterLon = sumLon / n

	return summary
}
