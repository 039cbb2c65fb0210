package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestLedger builds a ledger over a temp file store with a controllable
// clock. The returned setter moves the clock.
func newTestLedger(t *testing.T, limits Limits, start time.Time) (*Ledger, *UsageStore, func(time.Time)) {
	t.Helper()

	store := NewUsageStore(filepath.Join(t.TempDir(), "usage.json"))

	current := start
	setNow := func(now time.Time) { current = now }
	clock := func() time.Time { return current }

	return NewLedger(store, limits, clock, testLogger()), store, setNow
}

func defaultTestLimits() Limits {
	return Limits{Hourly: 10, Daily: 150, Monthly: 4500}
}

func TestLedgerFreshStartOnMissingFile(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	ledger, _, _ := newTestLedger(t, defaultTestLimits(), start)

	ledger.Reload()

	record := ledger.Record()
	if record.MonthlyCount != 0 || record.DailyCount != 0 || record.HourlyCount != 0 {
		t.Errorf("expected zero counters on fresh start, got %+v", record)
	}
	if record.Month != "2025-03" || record.Date != "2025-03-14" || record.Hour != 9 {
		t.Errorf("expected window keys from clock, got %+v", record)
	}
}

func TestLedgerFreshStartOnCorruptFile(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	dir := t.TempDir()
	path := filepath.Join(dir, "usage.json")
	if writeErr := os.WriteFile(path, []byte("{not json"), 0o644); writeErr != nil {
		t.Fatalf("failed to write corrupt file: %v", writeErr)
	}

	current := start
	ledger := NewLedger(NewUsageStore(path), defaultTestLimits(),
		func() time.Time { return current }, testLogger())

	ledger.Reload()

	record := ledger.Record()
	if record.MonthlyCount != 0 || record.DailyCount != 0 || record.HourlyCount != 0 {
		t.Errorf("expected zero counters after corrupt record, got %+v", record)
	}
}

func TestLedgerConsumeIncrementsAllWindows(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	ledger, store, _ := newTestLedger(t, defaultTestLimits(), start)
	ledger.Reload()

	decision := ledger.CheckAndConsume()
	if !decision.Allowed {
		t.Fatalf("expected admission, got denial %+v", decision)
	}

	record := ledger.Record()
	if record.MonthlyCount != 1 || record.DailyCount != 1 || record.HourlyCount != 1 {
		t.Errorf("expected all three counters at 1, got %+v", record)
	}

	// The increment must be persisted before the caller proceeds.
	persisted, loadErr := store.Load()
	if loadErr != nil {
		t.Fatalf("failed to load persisted record: %v", loadErr)
	}
	if persisted != record {
		t.Errorf("persisted record %+v differs from in-memory %+v", persisted, record)
	}
}

func TestLedgerRollovers(t *testing.T) {
	tests := []struct {
		name        string
		later       time.Time
		wantMonth   string
		wantDate    string
		wantHour    int
		wantMonthly int
		wantDaily   int
		wantHourly  int
	}{
		{
			name:        "hour boundary resets only hourly count",
			later:       time.Date(2025, 3, 14, 10, 1, 0, 0, time.UTC),
			wantMonth:   "2025-03",
			wantDate:    "2025-03-14",
			wantHour:    10,
			wantMonthly: 3,
			wantDaily:   3,
			wantHourly:  0,
		},
		{
			name:        "day boundary resets daily and hourly counts",
			later:       time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
			wantMonth:   "2025-03",
			wantDate:    "2025-03-15",
			wantHour:    9,
			wantMonthly: 3,
			wantDaily:   0,
			wantHourly:  0,
		},
		{
			name: "month boundary resets all counts even at same hour",
			// Same hour-of-day and day-of-month style keys would not match
			// anyway, but the hour (9) matches the stored hour exactly.
			later:       time.Date(2025, 4, 14, 9, 30, 0, 0, time.UTC),
			wantMonth:   "2025-04",
			wantDate:    "2025-04-14",
			wantHour:    9,
			wantMonthly: 0,
			wantDaily:   0,
			wantHourly:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
			ledger, _, setNow := newTestLedger(t, defaultTestLimits(), start)
			ledger.Reload()

			// Spend three units in the starting window.
			for range 3 {
				if decision := ledger.CheckAndConsume(); !decision.Allowed {
					t.Fatalf("setup admission denied: %+v", decision)
				}
			}

			setNow(tt.later)
			ledger.Reload()

			record := ledger.Record()
			if record.Month != tt.wantMonth || record.Date != tt.wantDate || record.Hour != tt.wantHour {
				t.Errorf("window keys = %q %q %d, want %q %q %d",
					record.Month, record.Date, record.Hour, tt.wantMonth, tt.wantDate, tt.wantHour)
			}
			if record.MonthlyCount != tt.wantMonthly ||
				record.DailyCount != tt.wantDaily ||
				record.HourlyCount != tt.wantHourly {
				t.Errorf("counts = %d %d %d, want %d %d %d",
					record.MonthlyCount, record.DailyCount, record.HourlyCount,
					tt.wantMonthly, tt.wantDaily, tt.wantHourly)
			}
		})
	}
}

func TestLedgerRolloverSurvivesRestart(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	ledger, store, _ := newTestLedger(t, defaultTestLimits(), start)
	ledger.Reload()

	if decision := ledger.CheckAndConsume(); !decision.Allowed {
		t.Fatalf("setup admission denied: %+v", decision)
	}

	// A new ledger over the same store, one hour later: the hourly window
	// must come back reset, the broader windows with their counts intact.
	later := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	restarted := NewLedger(store, defaultTestLimits(),
		func() time.Time { return later }, testLogger())
	restarted.Reload()

	record := restarted.Record()
	if record.HourlyCount != 0 || record.Hour != 10 {
		t.Errorf("expected hourly reset after restart, got %+v", record)
	}
	if record.MonthlyCount != 1 || record.DailyCount != 1 {
		t.Errorf("expected monthly/daily counts to survive restart, got %+v", record)
	}
}

func TestLedgerAdmissionOrder(t *testing.T) {
	tests := []struct {
		name       string
		seed       UsageRecord
		wantWindow Window
		wantLimit  int
	}{
		{
			name: "monthly limit is checked first",
			seed: UsageRecord{
				Month: "2025-03", MonthlyCount: 4500,
				Date: "2025-03-14", DailyCount: 150,
				HourlyCount: 10, Hour: 9,
			},
			wantWindow: WindowMonthly,
			wantLimit:  4500,
		},
		{
			name: "hourly limit is checked before daily",
			seed: UsageRecord{
				Month: "2025-03", MonthlyCount: 100,
				Date: "2025-03-14", DailyCount: 150,
				HourlyCount: 10, Hour: 9,
			},
			wantWindow: WindowHourly,
			wantLimit:  10,
		},
		{
			name: "daily limit reported when others are under budget",
			seed: UsageRecord{
				Month: "2025-03", MonthlyCount: 100,
				Date: "2025-03-14", DailyCount: 150,
				HourlyCount: 0, Hour: 9,
			},
			wantWindow: WindowDaily,
			wantLimit:  150,
		},
	}

	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewUsageStore(filepath.Join(t.TempDir(), "usage.json"))
			if saveErr := store.Save(tt.seed); saveErr != nil {
				t.Fatalf("failed to seed store: %v", saveErr)
			}

			ledger := NewLedger(store, defaultTestLimits(),
				func() time.Time { return now }, testLogger())
			ledger.Reload()

			decision := ledger.CheckAndConsume()
			if decision.Allowed {
				t.Fatal("expected denial, got admission")
			}
			if decision.Window != tt.wantWindow || decision.Limit != tt.wantLimit {
				t.Errorf("denied on %s/%d, want %s/%d",
					decision.Window, decision.Limit, tt.wantWindow, tt.wantLimit)
			}

			// A denied request must not change any counter.
			if record := ledger.Record(); record.MonthlyCount != tt.seed.MonthlyCount ||
				record.DailyCount != tt.seed.DailyCount ||
				record.HourlyCount != tt.seed.HourlyCount {
				t.Errorf("counters changed on denial: %+v", record)
			}
		})
	}
}

func TestLedgerConsumeUpToHourlyLimit(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	limits := Limits{Hourly: 3, Daily: 150, Monthly: 4500}
	ledger, _, _ := newTestLedger(t, limits, start)
	ledger.Reload()

	for i := range 3 {
		if decision := ledger.CheckAndConsume(); !decision.Allowed {
			t.Fatalf("admission %d denied unexpectedly: %+v", i, decision)
		}
	}

	decision := ledger.CheckAndConsume()
	if decision.Allowed {
		t.Fatal("expected denial once hourly limit is reached")
	}
	if decision.Window != WindowHourly {
		t.Errorf("denied on %s, want %s", decision.Window, WindowHourly)
	}
}
