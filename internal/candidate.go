package internal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// See https://openskynetwork.github.io/opensky-api/rest.html#all-state-vectors
// for the meaning of the state vector fields.

// State vector array indices of the fields we consume.
const (
	stateIdxIcao24       = 0
	stateIdxCallsign     = 1
	stateIdxLongitude    = 5
	stateIdxLatitude     = 6
	stateIdxBaroAltitude = 7
	stateIdxVelocity     = 9
	stateMinFields       = 10
)

// StateVector mirrors a single OpenSky state array. The feed encodes each
// aircraft as a JSON array with positional fields, any of which may be null.
// Fields we do not consume are dropped during unmarshalling.
type StateVector struct {
	Icao24       string   // hex transponder address, assumed unique
	Callsign     *string  // flight callsign, 8 chars, may be padded or null
	Longitude    *float64 // position in [decimal degrees]
	Latitude     *float64 // position in [decimal degrees]
	BaroAltitude *float64 // barometric altitude in [meters]
	Velocity     *float64 // ground speed in [m/s]
}

// stateResult mirrors the JSON returned by the OpenSky states/all endpoint.
type stateResult struct {
	Time   int64         `json:"time"`
	States []StateVector `json:"states"`
}

// UnmarshalJSON decodes a positional state array into a StateVector.
// Rows shorter than the documented minimum length keep all optional fields
// null, which excludes them from candidate selection later on.
func (sv *StateVector) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("stateVector: failed to unmarshal state array: %w", err)
	}

	sv.Icao24 = stateString(raw, stateIdxIcao24)
	sv.Callsign = stateStringPtr(raw, stateIdxCallsign)
	sv.Longitude = stateFloatPtr(raw, stateIdxLongitude)
	sv.Latitude = stateFloatPtr(raw, stateIdxLatitude)
	sv.BaroAltitude = stateFloatPtr(raw, stateIdxBaroAltitude)
	sv.Velocity = stateFloatPtr(raw, stateIdxVelocity)

	return nil
}

func stateString(raw []any, idx int) string {
	if idx >= len(raw) {
		return ""
	}
	if str, ok := raw[idx].(string); ok {
		return str
	}
	return ""
}

func stateStringPtr(raw []any, idx int) *string {
	if idx >= len(raw) {
		return nil
	}
	if str, ok := raw[idx].(string); ok {
		return &str
	}
	return nil
}

func stateFloatPtr(raw []any, idx int) *float64 {
	if idx >= len(raw) {
		return nil
	}
	if num, ok := raw[idx].(float64); ok {
		return &num
	}
	return nil
}

// Candidate is a position report that passed the completeness and range
// filters for the current cycle. Candidates live for exactly one cycle.
type Candidate struct {
	Icao24       string
	Callsign     string  // trimmed callsign
	Distance     float64 // great-circle distance to home in [km]
	BaroAltitude float64 // barometric altitude in [meters]
	Velocity     float64 // ground speed in [m/s]
}

// ByDistance implements the comparator interface and allows sorting a list of
// candidates by distance to the home coordinate.
type ByDistance []Candidate

func (a ByDistance) Len() int           { return len(a) }
func (a ByDistance) Less(i, j int) bool { return a[i].Distance < a[j].Distance }
func (a ByDistance) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// SelectCandidates converts raw state vectors into a distance-sorted list of
// candidates around the home coordinate. A state vector qualifies only if
// identity, callsign, position, barometric altitude and velocity are all
// present; incomplete reports are silently dropped.
func SelectCandidates(states []StateVector, home Coordinates, rangeKm float64) []Candidate {
	candidates := make([]Candidate, 0, len(states))

	for i := range states {
		state := &states[i]
		if state.Icao24 == "" || state.Callsign == nil ||
			state.Longitude == nil || state.Latitude == nil ||
			state.BaroAltitude == nil || state.Velocity == nil {
			continue
		}

		acPos := NewCoordinates(*state.Latitude, *state.Longitude)
		distance := DistanceKm(home, acPos)
		if distance > rangeKm {
			continue
		}

		candidates = append(candidates, Candidate{
			Icao24:       state.Icao24,
			Callsign:     strings.TrimSpace(*state.Callsign),
			Distance:     distance,
			BaroAltitude: *state.BaroAltitude,
			Velocity:     *state.Velocity,
		})
	}

	sort.Sort(ByDistance(candidates))

	return candidates
}

// commercialCallsignPattern matches standard commercial flight numbers:
// three letter ICAO airline code, 1-4 digit flight number, optional suffix.
var commercialCallsignPattern = regexp.MustCompile(`^[A-Z]{3}\d{1,4}[A-Z]?$`)

// nonCommercialPrefixes lists ICAO prefixes of known military, cargo and
// private charter operators whose callsigns look like airline flights.
var nonCommercialPrefixes = map[string]bool{
	"RCH": true, "CNV": true, "EJM": true, "LXJ": true, "FDX": true,
	"UPS": true, "ASR": true, "CFC": true, "FAF": true, "KCM": true,
	"GTI": true, "POE": true, "JOS": true, "NWS": true,
}

// IsCommercialCallsign reports whether a callsign belongs to a scheduled
// commercial flight. The callsign must match the structural pattern and its
// airline prefix must not be on the exclusion list.
func IsCommercialCallsign(callsign string) bool {
	cleaned := strings.ToUpper(strings.TrimSpace(callsign))
	if cleaned == "" {
		return false
	}

	if !commercialCallsignPattern.MatchString(cleaned) {
		return false
	}

	return !nonCommercialPrefixes[cleaned[:3]]
}
