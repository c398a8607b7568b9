package bikeshare

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoPayment is the payment text used when a station does not take card payments.
const NoPayment = "No"

// NetworkLocation is where a bike-share network operates.
type NetworkLocation struct {
	City      string  `json:"city"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Network is a bike-share operator as listed by the directory API.
// Href is the path of the live station feed, relative to the directory host.
type Network struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Href     string          `json:"href"`
	Location NetworkLocation `json:"location"`
}

// UID identifies a station within its network. Feeds send it either as a
// string or as a number.
type UID string

func (u *UID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("station uid: %w", err)
	}
	*u = UID(n.String())
	return nil
}

// StationExtra holds operator-specific fields. Every field may be absent.
type StationExtra struct {
	UID     *UID     `json:"uid,omitempty"`
	Ebikes  *int     `json:"ebikes,omitempty"`
	Banking *bool    `json:"banking,omitempty"`
	Payment []string `json:"payment,omitempty"`
}

// StationRaw is a station exactly as returned by a network's live feed.
type StationRaw struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Latitude   float64      `json:"latitude"`
	Longitude  float64      `json:"longitude"`
	FreeBikes  int          `json:"free_bikes"`
	EmptySlots int          `json:"empty_slots"`
	Timestamp  string       `json:"timestamp"`
	Extra      StationExtra `json:"extra"`
}

// StationRecord is the flattened, defaulted view of a station.
type StationRecord struct {
	StationName string  `json:"stationName"`
	EmptySlots  int     `json:"emptySlots"`
	FreeBikes   int     `json:"freeBikes"`
	Ebikes      int     `json:"ebikes"`
	Payment     string  `json:"payment"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timestamp   string  `json:"timestamp"`
	UniqueID    string  `json:"uniqueId"`
}

// StationCollection is every normalized station of one city at one point in time,
// in the order the upstream feed listed them.
type StationCollection []StationRecord

// Names returns the station names in collection order.
func (c StationCollection) Names() []string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.StationName)
	}
	return names
}

// Summary aggregates a StationCollection.
type Summary struct {
	City       string    `json:"city"`
	Stations   int       `json:"stations"`
	FreeBikes  int       `json:"freeBikes"`
	EmptySlots int       `json:"emptySlots"`
	Ebikes     int       `json:"ebikes"`
	CenterLat  float64   `json:"centerLat"`
	CenterLon  float64   `json:"centerLon"`
	Timestamp  time.Time `json:"timestamp"` // newest station timestamp, UTC
}
