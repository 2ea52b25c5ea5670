package utils

import "time"

func yfActual(start, end time.Time, basis float64) float64 {
	return Days(start, end) / basis
}

// yf30E360 is the Eurobond basis: day-of-month capped at 30 on both ends.
func yf30E360(start, end time.Time) float64 {
	d1 := min(start.Day(), 30)
	d2 := min(end.Day(), 30)
	months := 12*(end.Year()-start.Year()) + int(end.Month()) - int(start.Month())
	return float64(30*months+d2-d1) / 360.0
}

// YearFraction converts a date interval into an accrual fraction under the
// named day-count convention: ACT/360, ACT/365F or 30E/360 (alias 30/360).
// Unknown conventions fall back to ACT/365F.
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return yfActual(start, end, 360.0)
	case "30E/360", "30/360":
		return yf30E360(start, end)
	default:
		return yfActual(start, end, 365.0)
	}
}
