package bikeshare

import (
	"fmt"
	"strings"
)

// NormalizeStations flattens raw stations into records, one per input and in input order.
// Optional extra fields fall back to ebikes=0, banking=false and payment "No".
// A station without extra.uid fails the whole batch.
func NormalizeStations(raw []StationRaw) ([]StationRecord, error) {
	records := make([]StationRecord, 0, len(raw))
	for _, st := range raw {
		rec, err := normalizeStation(st)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func normalizeStation(st StationRaw) (StationRecord, error) {
	if st.Extra.UID == nil {
		return StationRecord{}, fmt.Errorf("%w: %q", ErrMissingUID, st.Name)
	}

	ebikes := 0
	if st.Extra.Ebikes != nil {
		ebikes = *st.Extra.Ebikes
	}

	return StationRecord{
		StationName: st.Name,
		EmptySlots:  st.EmptySlots,
		FreeBikes:   st.FreeBikes,
		Ebikes:      ebikes,
		Payment:     paymentText(st.Extra),
		Latitude:    st.Latitude,
		Longitude:   st.Longitude,
		Timestamp:   st.Timestamp,
		UniqueID:    string(*st.Extra.UID),
	}, nil
}

func paymentText(extra StationExtra) string {
	banking := extra.Banking != nil && *extra.Banking
	if !banking || len(extra.Payment) == 0 {
		return NoPayment
	}
	return strings.Join(extra.Payment, ", ")
}
