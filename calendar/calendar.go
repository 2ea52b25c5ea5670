package calendar

import (
	"sync"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	JPN    CalendarID = "JPN"
	USD    CalendarID = "USD"
	GBP    CalendarID = "GBP"
)

var (
	holidaysMu sync.RWMutex
	holidays   = map[CalendarID]map[string]struct{}{
		TARGET: targetHolidays(),
		JPN:    {},
		USD:    {},
		GBP:    {},
	}
)

// TARGET closing days are fixed-date and known years in advance; weekends are
// handled separately in IsBusinessDay.
func targetHolidays() map[string]struct{} {
	set := make(map[string]struct{})
	for year := 2020; year <= 2060; year++ {
		for _, d := range []time.Time{
			time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, 12, 25, 0, 0, 0, 0, time.UTC),
			time.Date(year, 12, 26, 0, 0, 0, 0, time.UTC),
		} {
			set[d.Format("2006-01-02")] = struct{}{}
		}
	}
	return set
}

// RegisterHolidays adds holiday dates (YYYY-MM-DD) to a calendar. Movable
// holidays are market data, not code, so callers load them at startup; the
// lock also makes late registration safe against concurrent date checks.
func RegisterHolidays(cal CalendarID, dates []string) {
	holidaysMu.Lock()
	defer holidaysMu.Unlock()
	set, ok := holidays[cal]
	if !ok {
		set = make(map[string]struct{})
		holidays[cal] = set
	}
	for _, d := range dates {
		set[d] = struct{}{}
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	holidaysMu.RLock()
	defer holidaysMu.RUnlock()
	set, ok := holidays[cal]
	if !ok {
		return false
	}
	_, found := set[t.Format("2006-01-02")]
	return found
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AdjustPreceding moves backward to the nearest business day.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
