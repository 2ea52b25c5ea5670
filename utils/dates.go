package utils

import (
	"math"
	"slices"
	"sort"
	"time"
)

// SortDates orders dates ascending in place.
func SortDates(dates []time.Time) {
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
}

// AdjacentDates returns the pair from a sorted grid that brackets target.
// A target outside the grid gets the nearest boundary pair, so callers
// extrapolate on the edge segment. The grid needs at least two dates.
func AdjacentDates(target time.Time, dates []time.Time) (time.Time, time.Time) {
	if len(dates) < 2 {
		panic("AdjacentDates: need at least 2 dates")
	}

	i := sort.Search(len(dates), func(i int) bool {
		return !dates[i].Before(target)
	})
	switch {
	case i <= 0:
		i = 1
	case i >= len(dates):
		i = len(dates) - 1
	}
	return dates[i-1], dates[i]
}

// Days returns the whole and fractional days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// AddMonth behaves like Excel's EDATE: the day of month is preserved and
// clamped to the target month's length, never spilling into the next month
// the way Go's AddDate normalization does.
func AddMonth(t time.Time, months int) time.Time {
	anchor := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := anchor.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// RoundTo rounds to the given number of decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
