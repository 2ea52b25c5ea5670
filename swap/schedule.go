package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/swapval/calendar"
	"github.com/meenmo/swapval/swap/market"
	"github.com/meenmo/swapval/utils"
)

// SchedulePeriod is one accrual period of a leg schedule.
//
// Dates are business-day adjusted per the leg convention used to build the
// schedule.
type SchedulePeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	PayDate     time.Time
	AccrualDays int
	FixingDate  time.Time
}

// Schedule is the ordered sequence of accrual periods for one leg, together
// with the calendar and business-day convention it was generated under. The
// convention doubles as the default payment convention when the instrument
// is constructed without an explicit one.
type Schedule struct {
	Periods    []SchedulePeriod
	Calendar   calendar.CalendarID
	Convention market.BusinessDayAdjustment
}

// NewSchedule builds the payment schedule for a leg, rolling forward from the
// effective date with EDATE month arithmetic and adjusting each boundary per
// the leg convention. A zero-length interval yields an empty schedule, which
// is valid: the instrument it belongs to is simply expired.
func NewSchedule(effective, maturity time.Time, leg market.LegConvention) (Schedule, error) {
	if maturity.Before(effective) {
		return Schedule{}, fmt.Errorf("NewSchedule: maturity %s before effective %s",
			maturity.Format("2006-01-02"), effective.Format("2006-01-02"))
	}
	if leg.PayFrequency <= 0 {
		return Schedule{}, fmt.Errorf("NewSchedule: unsupported pay frequency %d", leg.PayFrequency)
	}

	months := int(leg.PayFrequency)
	periods := make([]SchedulePeriod, 0, 64)
	start := effective

	for {
		next := utils.AddMonth(start, months)
		if next.After(maturity.AddDate(0, 0, 1)) {
			break
		}

		accrualStart := market.ApplyAdjustment(leg.BusinessDayAdjustment, leg.Calendar, start)
		accrualEnd := market.ApplyAdjustment(leg.BusinessDayAdjustment, leg.Calendar, next)
		paymentDate := calendar.AddBusinessDays(leg.Calendar, accrualEnd, leg.PayDelayDays)

		fixingDate := calendar.AddBusinessDays(leg.Calendar, accrualStart, -leg.FixingLagDays)
		if leg.ResetPosition == market.ResetInArrears {
			fixingDate = calendar.AddBusinessDays(leg.Calendar, accrualEnd, -(leg.RateCutoffDays + leg.FixingLagDays))
		}

		periods = append(periods, SchedulePeriod{
			StartDate:   accrualStart,
			EndDate:     accrualEnd,
			PayDate:     paymentDate,
			AccrualDays: int(utils.Days(accrualStart, accrualEnd)),
			FixingDate:  fixingDate,
		})

		// Always roll from the unadjusted date to avoid drift.
		start = next
	}

	return Schedule{
		Periods:    periods,
		Calendar:   leg.Calendar,
		Convention: leg.BusinessDayAdjustment,
	}, nil
}

// LastPayDate returns the final payment date, or the zero time for an empty
// schedule.
func (s Schedule) LastPayDate() time.Time {
	if len(s.Periods) == 0 {
		return time.Time{}
	}
	return s.Periods[len(s.Periods)-1].PayDate
}
