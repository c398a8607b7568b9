package bikeshare

import (
	"sort"

	"github.com/i474232898/bikeshare-viewer/internal/common"
)

// MatchKind tags the outcome of a station lookup.
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchExact     MatchKind = "exact"
	MatchAmbiguous MatchKind = "ambiguous"
)

// LocateResult is the outcome of FindStation. Station is set only for MatchExact,
// Candidates only for MatchAmbiguous.
type LocateResult struct {
	Match      MatchKind      `json:"match"`
	Station    *StationRecord `json:"station,omitempty"`
	Candidates []string       `json:"candidates,omitempty"`
}

// FindStation looks up stations whose name contains query, ignoring case.
// When several stations match, none is picked; the caller has to ask for a
// more specific query.
func FindStation(query string, stations StationCollection) LocateResult {
	var matches []StationRecord
	for _, st := range stations {
		if common.ContainsFold(st.StationName, query) {
			matches = append(matches, st)
		}
	}

	switch len(matches) {
	case 0:
		return LocateResult{Match: MatchNone}
	case 1:
		st := matches[0]
		return LocateResult{Match: MatchExact, Station: &st}
	}

	names := StationCollection(matches).Names()
	sort.Strings(names)
	return LocateResult{Match: MatchAmbiguous, Candidates: names}
}
