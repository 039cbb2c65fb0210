package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	monthKeyLayout = "2006-01"
	dateKeyLayout  = "2006-01-02"
)

// Window identifies one of the three fixed budget periods.
type Window string

const (
	WindowHourly  Window = "hourly"
	WindowDaily   Window = "daily"
	WindowMonthly Window = "monthly"
)

// Limits holds the maximum number of metered route lookups per window.
type Limits struct {
	Hourly  int
	Daily   int
	Monthly int
}

// UsageRecord is the persisted call-count state across all three windows.
// The JSON field names match the usage document written by earlier versions
// of the tracker, so an existing file carries over without migration.
type UsageRecord struct {
	Month        string `json:"month"` // YYYY-MM key of the monthly window
	MonthlyCount int    `json:"monthly_count"`
	Date         string `json:"date"` // YYYY-MM-DD key of the daily window
	DailyCount   int    `json:"count"`
	HourlyCount  int    `json:"hourly_count"`
	Hour         int    `json:"hour"` // 0-23 key of the hourly window
}

// freshUsageRecord returns an all-zero record keyed to the given time.
func freshUsageRecord(now time.Time) UsageRecord {
	return UsageRecord{
		Month:        now.Format(monthKeyLayout),
		MonthlyCount: 0,
		Date:         now.Format(dateKeyLayout),
		DailyCount:   0,
		HourlyCount:  0,
		Hour:         now.Hour(),
	}
}

// Decision is the outcome of a quota admission check. When a request is
// denied, Window and Limit name the first window found over budget.
type Decision struct {
	Allowed bool
	Window  Window
	Limit   int
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(window Window, limit int) Decision {
	return Decision{Allowed: false, Window: window, Limit: limit}
}

// Ledger gates metered route lookups against the hourly, daily and monthly
// budgets. It holds the current usage record, reconciles it against wall
// clock time before every admission and persists every mutation.
// Single writer assumption: the ledger is only ever touched from within one
// poll cycle at a time.
type Ledger struct {
	store  *UsageStore
	limits Limits
	now    func() time.Time
	logger *slog.Logger
	record UsageRecord
}

func NewLedger(store *UsageStore, limits Limits, now func() time.Time, logger *slog.Logger) *Ledger {
	if now == nil {
		now = time.Now
	}

	return &Ledger{
		store:  store,
		limits: limits,
		now:    now,
		logger: logger,
		record: freshUsageRecord(now()),
	}
}

// Record returns a copy of the current usage record.
func (led *Ledger) Record() UsageRecord {
	return led.record
}

// Limits returns the configured window limits.
func (led *Ledger) Limits() Limits {
	return led.limits
}

// Reload reads the persisted usage record and reconciles it against the
// current time. A missing or corrupt record counts as a fresh start, never
// as an error.
func (led *Ledger) Reload() {
	record, loadErr := led.store.Load()
	if loadErr != nil {
		if errors.Is(loadErr, ErrNoUsageRecord) {
			led.logger.Info("ledger: no usage record found, starting fresh")
		} else {
			led.logger.Warn("ledger: could not load usage record, resetting counts to 0",
				slog.Any("error", loadErr))
		}

		led.record = freshUsageRecord(led.now())
		led.persist()

		return
	}

	led.record = record
	led.reconcile()

	led.logger.Info("ledger: usage status",
		slog.String("monthly", fmt.Sprintf("%d/%d", led.record.MonthlyCount, led.limits.Monthly)),
		slog.String("daily", fmt.Sprintf("%d/%d", led.record.DailyCount, led.limits.Daily)),
		slog.String("hourly", fmt.Sprintf("%d/%d", led.record.HourlyCount, led.limits.Hourly)))
}

// reconcile applies window rollovers based on a single time snapshot.
// A month rollover subsumes day and hour, a day rollover subsumes hour.
// Any reset is persisted immediately.
func (led *Ledger) reconcile() {
	now := led.now()
	currentMonth := now.Format(monthKeyLayout)
	currentDate := now.Format(dateKeyLayout)
	currentHour := now.Hour()

	switch {
	case led.record.Month != currentMonth:
		led.record.Month = currentMonth
		led.record.MonthlyCount = 0
		led.record.Date = currentDate
		led.record.DailyCount = 0
		led.record.Hour = currentHour
		led.record.HourlyCount = 0
	case led.record.Date != currentDate:
		led.record.Date = currentDate
		led.record.DailyCount = 0
		led.record.Hour = currentHour
		led.record.HourlyCount = 0
	case led.record.Hour != currentHour:
		led.record.Hour = currentHour
		led.record.HourlyCount = 0
	default:
		return // no boundary crossed, nothing to persist
	}

	led.persist()
}

// CheckAndConsume reconciles the ledger, checks all three windows in strict
// priority order (monthly first, then hourly, then daily) and, if admitted,
// increments all three counters as one unit and persists the record before
// returning. A denied request does not change any counter.
func (led *Ledger) CheckAndConsume() Decision {
	led.reconcile()

	if led.record.MonthlyCount >= led.limits.Monthly {
		return denied(WindowMonthly, led.limits.Monthly)
	}

	if led.record.HourlyCount >= led.limits.Hourly {
		return denied(WindowHourly, led.limits.Hourly)
	}

	if led.record.DailyCount >= led.limits.Daily {
		return denied(WindowDaily, led.limits.Daily)
	}

	led.record.MonthlyCount++
	led.record.DailyCount++
	led.record.HourlyCount++
	led.persist()

	return allowed()
}

// persist writes the current record. Counting is best-effort: a storage
// fault must not block the tracker, so failures only produce a warning.
func (led *Ledger) persist() {
	if saveErr := led.store.Save(led.record); saveErr != nil {
		led.logger.Warn("ledger: could not save usage record", slog.Any("error", saveErr))
	}
}
