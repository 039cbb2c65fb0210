package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AirportIndex maps 4-letter ICAO airport codes to 3-letter IATA codes.
type AirportIndex map[string]string

// LoadAirportIndex reads the ICAO to IATA airport mapping from a JSON file.
// Keys are upper-cased on load for robust lookup. Callers may treat a
// missing file as a soft failure and continue with an empty index.
func LoadAirportIndex(filePath string) (AirportIndex, error) {
	data, readErr := os.ReadFile(filePath)
	if readErr != nil {
		return nil, fmt.Errorf("loadAirportIndex: failed to read %s: %w", filePath, readErr)
	}

	var mapping map[string]string
	if parseErr := json.Unmarshal(data, &mapping); parseErr != nil {
		return nil, fmt.Errorf("loadAirportIndex: failed to parse %s: %w", filePath, parseErr)
	}

	index := make(AirportIndex, len(mapping))
	for icao, iata := range mapping {
		index[strings.ToUpper(icao)] = iata
	}

	return index, nil
}

// ToIATA translates an ICAO airport code to its IATA equivalent. Unknown
// codes fall through unchanged, empty codes become the display sentinel.
func (index AirportIndex) ToIATA(icaoCode string) string {
	if icaoCode == "" {
		return ValueUnknown
	}

	if iata, exists := index[strings.ToUpper(icaoCode)]; iata != "" && exists {
		return iata
	}

	return icaoCode
}
