package internal

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		p        Coordinates
		q        Coordinates
		expected float64
	}{
		{
			name:     "zero distance",
			p:        NewCoordinates(1.359297, 103.989348),
			q:        NewCoordinates(1.359297, 103.989348),
			expected: 0.0,
		},
		{
			name:     "one degree of latitude",
			p:        NewCoordinates(0, 0),
			q:        NewCoordinates(1, 0),
			expected: 111.19,
		},
		{
			name:     "Singapore to Frankfurt",
			p:        NewCoordinates(1.359297, 103.989348),
			q:        NewCoordinates(50.0379, 8.5622),
			expected: 10260,
		},
	}

	// Allow for earth radius approximation differences.
	const epsilonRatio = 0.01

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.p, tt.q)
			tolerance := math.Max(tt.expected*epsilonRatio, 0.5)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("DistanceKm() = %v, want %v ± %v", got, tt.expected, tolerance)
			}
		})
	}
}
