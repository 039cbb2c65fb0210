package internal

import (
	"math"
)

// Inspired by https://github.com/LucaTheHacker/go-haversine

const (
	earthRadiusKilometers float64 = 6371 // Radius of Earth in kilometers
	piHalf                float64 = math.Pi / 180
)

func degreesToRadian(d float64) float64 {
	return d * piHalf
}

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func NewCoordinates(latitude, longitude float64) Coordinates {
	return Coordinates{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

func (c Coordinates) toRadians() Coordinates {
	return Coordinates{
		Latitude:  degreesToRadian(c.Latitude),
		Longitude: degreesToRadian(c.Longitude),
	}
}

// DistanceKm calculates the great-circle distance in kilometers between two
// coordinates using the haversine formula.
//
//nolint:mnd // readability of mathmatic formula
func DistanceKm(p, q Coordinates) float64 {
	fromPos := p.toRadians()
	toPos := q.toRadians()

	deltaLat := toPos.Latitude - fromPos.Latitude
	deltaLon := toPos.Longitude - fromPos.Longitude

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(fromPos.Latitude)*
			math.Cos(toPos.Latitude)*
			math.Pow(math.Sin(deltaLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return c * earthRadiusKilometers
}
