package internal

import (
	"fmt"
	"strings"
	"time"
)

const (
	clockLayout12H = "03:04"
	clockLayout24H = "15:04"
	dateLayout     = "01/02/06"
)

func clockLayout(timeFormat string) string {
	if strings.EqualFold(timeFormat, "12H") {
		return clockLayout12H
	}

	return clockLayout24H
}

// BuildFlightMessage renders the display line for the closest flight.
// Unknown fields are left out entirely rather than shown as sentinels.
func BuildFlightMessage(plane EnrichedPlane, now time.Time, timeFormat string) string {
	parts := []string{plane.Callsign}

	routeSegment := ""
	switch {
	case plane.Origin != ValueUnknown && plane.Destination != ValueUnknown:
		routeSegment = fmt.Sprintf("%s > %s", plane.Origin, plane.Destination)
	case plane.Origin != ValueUnknown:
		routeSegment = fmt.Sprintf("(FROM:%s)", plane.Origin)
	case plane.Destination != ValueUnknown:
		routeSegment = fmt.Sprintf("(TO:%s)", plane.Destination)
	}

	if routeSegment != "" {
		parts = append(parts, routeSegment)
	} else {
		// Without a route there is display room for the clock.
		parts = append(parts, now.Format(clockLayout(timeFormat)))
	}

	parts = append(parts, fmt.Sprintf("%dFT", plane.Altitude))

	if routeSegment == "" {
		parts = append(parts, fmt.Sprintf("%dKT", plane.Speed))
		return strings.Join(parts, " ")
	}

	return strings.Join(parts, "   ")
}

// BuildWeatherMessage renders the fallback line shown when no flights are
// in range: date, time and either current conditions or an error label.
func BuildWeatherMessage(report WeatherReport, fetchErr error, now time.Time, timeFormat string) string {
	stamp := now.Format(dateLayout) + "  " + now.Format(clockLayout(timeFormat))

	if fetchErr != nil {
		return stamp + "  WEATHER UNAVAILABLE"
	}

	return fmt.Sprintf("%s  %s  %dF", stamp, strings.ToUpper(report.Description), report.TempF)
}
