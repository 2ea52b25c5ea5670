package swap

import (
	"time"

	"github.com/meenmo/swapval/swap/market"
	"github.com/meenmo/swapval/utils"
)

// CashFlow is one accrual period of a leg. A fixed-leg cashflow carries its
// coupon Amount; a floating-leg cashflow carries the Spread, with the rate
// forecast supplied at valuation time by the instrument's floating index.
type CashFlow struct {
	AccrualStart time.Time
	AccrualEnd   time.Time
	PayDate      time.Time
	FixingDate   time.Time // zero for fixed cashflows
	AccrualTime  float64   // year fraction per the leg's day count
	Notional     float64
	Amount       float64 // fixed coupon amount; zero for floating
	Spread       float64 // floating only
}

// Leg is an ordered sequence of cashflows, one per accrual period. It is
// owned by the instrument and immutable once constructed.
type Leg []CashFlow

// newFixedLeg builds the fixed leg's cashflows from a schedule. Payment
// dates are re-rolled under the instrument's resolved payment convention.
func newFixedLeg(sched Schedule, notional, rate float64, dc market.DayCount, payConv market.BusinessDayAdjustment) Leg {
	leg := make(Leg, 0, len(sched.Periods))
	for _, p := range sched.Periods {
		accrual := utils.YearFraction(p.StartDate, p.EndDate, string(dc))
		leg = append(leg, CashFlow{
			AccrualStart: p.StartDate,
			AccrualEnd:   p.EndDate,
			PayDate:      market.ApplyAdjustment(payConv, sched.Calendar, p.PayDate),
			AccrualTime:  accrual,
			Notional:     notional,
			Amount:       notional * rate * accrual,
		})
	}
	return leg
}

// newFloatingLeg builds the floating leg's cashflows from a schedule. Coupon
// amounts are not set here: forecasting belongs to the floating index and
// happens per valuation.
func newFloatingLeg(sched Schedule, notional, spread float64, dc market.DayCount, payConv market.BusinessDayAdjustment) Leg {
	leg := make(Leg, 0, len(sched.Periods))
	for _, p := range sched.Periods {
		accrual := utils.YearFraction(p.StartDate, p.EndDate, string(dc))
		leg = append(leg, CashFlow{
			AccrualStart: p.StartDate,
			AccrualEnd:   p.EndDate,
			PayDate:      market.ApplyAdjustment(payConv, sched.Calendar, p.PayDate),
			FixingDate:   p.FixingDate,
			AccrualTime:  accrual,
			Notional:     notional,
			Spread:       spread,
		})
	}
	return leg
}
