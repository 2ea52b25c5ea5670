package market

import (
	"time"

	"github.com/meenmo/swapval/calendar"
)

// LegType distinguishes floating vs fixed.
type LegType string

const (
	LegFloating LegType = "FLOATING"
	LegFixed    LegType = "FIXED"
)

// Frequency enumerates payment/reset frequencies in months.
type Frequency int

const (
	FreqAnnual    Frequency = 12
	FreqSemi      Frequency = 6
	FreqQuarterly Frequency = 3
	FreqMonthly   Frequency = 1
	FreqDaily     Frequency = 0
)

// BusinessDayAdjustment is the payment-date roll convention.
type BusinessDayAdjustment string

const (
	ModifiedFollowing BusinessDayAdjustment = "MODIFIED_FOLLOWING"
	Following         BusinessDayAdjustment = "FOLLOWING"
	Preceding         BusinessDayAdjustment = "PRECEDING"
	Unadjusted        BusinessDayAdjustment = "UNADJUSTED"
)

// ApplyAdjustment rolls a date per the given convention on a calendar.
func ApplyAdjustment(adj BusinessDayAdjustment, cal calendar.CalendarID, t time.Time) time.Time {
	switch adj {
	case Following:
		return calendar.AdjustFollowing(cal, t)
	case Preceding:
		return calendar.AdjustPreceding(cal, t)
	case Unadjusted:
		return t
	default:
		return calendar.Adjust(cal, t)
	}
}

// ResetPosition indicates fixing timing.
type ResetPosition string

const (
	ResetInAdvance ResetPosition = "IN_ADVANCE"
	ResetInArrears ResetPosition = "IN_ARREARS"
)

// DayCount enum.
type DayCount string

const (
	Act360  DayCount = "ACT/360"
	Act365F DayCount = "ACT/365F"
	Dc30360 DayCount = "30E/360"
)

// LegConvention captures standard swap leg settings.
type LegConvention struct {
	LegType               LegType
	ReferenceRate         ReferenceIndex
	DayCount              DayCount
	ResetFrequency        Frequency
	PayFrequency          Frequency
	FixingLagDays         int
	PayDelayDays          int
	BusinessDayAdjustment BusinessDayAdjustment
	Calendar              calendar.CalendarID
	ResetPosition         ResetPosition
	RateCutoffDays        int
}
