package internal

import (
	"testing"
	"time"
)

func TestIsActiveHour(t *testing.T) {
	tests := []struct {
		name  string
		hour  int
		start int
		end   int
		want  bool
	}{
		{"daytime window, inside", 12, 8, 20, true},
		{"daytime window, at start", 8, 8, 20, true},
		{"daytime window, at end", 20, 8, 20, false},
		{"daytime window, before start", 7, 8, 20, false},
		{"daytime window, after end", 23, 8, 20, false},
		{"wrapping window, late evening", 22, 20, 8, true},
		{"wrapping window, past midnight", 3, 20, 8, true},
		{"wrapping window, at start", 20, 20, 8, true},
		{"wrapping window, at end", 8, 20, 8, false},
		{"wrapping window, midday dead zone", 13, 20, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActiveHour(tt.hour, tt.start, tt.end); got != tt.want {
				t.Errorf("IsActiveHour(%d, %d, %d) = %v, want %v",
					tt.hour, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestSleepDuration(t *testing.T) {
	refresh := 30 * time.Second

	tests := []struct {
		name  string
		now   time.Time
		start int
		end   int
		want  time.Duration
	}{
		{
			name:  "inside the window the refresh interval applies",
			now:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			start: 8,
			end:   20,
			want:  refresh,
		},
		{
			name:  "just before the next window start the sleep is clipped",
			now:   time.Date(2025, 3, 14, 7, 59, 50, 0, time.UTC),
			start: 8,
			end:   20,
			want:  10 * time.Second,
		},
		{
			name:  "never below one second",
			now:   time.Date(2025, 3, 14, 7, 59, 59, 500000000, time.UTC),
			start: 8,
			end:   20,
			want:  time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SleepDuration(tt.now, refresh, tt.start, tt.end); got != tt.want {
				t.Errorf("SleepDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextWindowStart(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		start int
		end   int
		want  time.Time
	}{
		{
			name:  "before todays window start",
			now:   time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC),
			start: 8,
			end:   20,
			want:  time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "after the window closed the next start is tomorrow",
			now:   time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC),
			start: 8,
			end:   20,
			want:  time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "wrapping window during the dead zone",
			now:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			start: 20,
			end:   8,
			want:  time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC),
		},
		{
			name:  "wrapping window while already active at night",
			now:   time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC),
			start: 20,
			end:   8,
			want:  time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWindowStart(tt.now, tt.start, tt.end); !got.Equal(tt.want) {
				t.Errorf("NextWindowStart() = %v, want %v", got, tt.want)
			}
		})
	}
}
