package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/swapval/calendar"
	"github.com/meenmo/swapval/swap/market"
	"github.com/meenmo/swapval/utils"
)

// FixingProvider supplies historical index fixings as decimals
// (0.025 == 2.5%).
type FixingProvider interface {
	Fixing(index market.ReferenceIndex, date time.Time) (float64, bool)
}

// FloatingRateIndex is the per-convention capability that populates the
// floating side of an Arguments snapshot. The instrument fills the
// mechanical floating fields (dates, accruals, spreads) and delegates the
// coupon forecasts here, so new floating conventions plug in without
// touching fixed-leg logic. The concrete variant is selected at instrument
// construction.
//
// asOf is the valuation date and the single cutover between published
// fixings and curve forecasts: fixings dated strictly before asOf come from
// the FixingProvider, everything else from the projection curve. It is the
// same date the engine discounts to, so a valuation date ahead of curve
// settlement still resolves already-published fixings.
type FloatingRateIndex interface {
	Name() market.ReferenceIndex
	DayCount() market.DayCount
	SetupFloatingArguments(args *Arguments, leg Leg, asOf time.Time) error
}

// forwardRate infers the simple forward rate over [start, end] from a
// projection curve's discount factor ratio.
func forwardRate(proj ProjectionCurve, start, end time.Time, dc market.DayCount) float64 {
	dfStart := proj.DF(start)
	dfEnd := proj.DF(end)
	alpha := utils.YearFraction(start, end, string(dc))
	if alpha == 0 {
		return 0
	}
	return (dfStart/dfEnd - 1.0) / alpha
}

// IborIndex is a term floating index fixed in advance (EURIBOR, TIBOR).
// Future coupons are forecast as simple forwards off the projection curve;
// periods whose fixing is already past resolve through the fixing provider.
type IborIndex struct {
	Index      market.ReferenceIndex
	DC         market.DayCount
	Projection ProjectionCurve
	Fixings    FixingProvider // required only when a fixing date is in the past
}

var _ FloatingRateIndex = (*IborIndex)(nil)

func (x *IborIndex) Name() market.ReferenceIndex { return x.Index }

func (x *IborIndex) DayCount() market.DayCount { return x.DC }

// SetupFloatingArguments fills args.FloatingCoupons with forecast amounts,
// one per cashflow: notional x (rate + spread) x accrual.
func (x *IborIndex) SetupFloatingArguments(args *Arguments, leg Leg, asOf time.Time) error {
	if isNilInterface(x.Projection) {
		return fmt.Errorf("%s: %w", x.Index, ErrNilCurve)
	}

	args.FloatingCoupons = make([]float64, 0, len(leg))

	for _, cf := range leg {
		var rate float64
		if cf.FixingDate.Before(asOf) {
			fixing, ok := x.fixing(cf.FixingDate)
			if !ok {
				return fmt.Errorf("%s: missing fixing for %s", x.Index, cf.FixingDate.Format("2006-01-02"))
			}
			rate = fixing
		} else {
			rate = forwardRate(x.Projection, cf.AccrualStart, cf.AccrualEnd, x.DC)
		}
		args.FloatingCoupons = append(args.FloatingCoupons, cf.Notional*(rate+cf.Spread)*cf.AccrualTime)
	}
	return nil
}

func (x *IborIndex) fixing(date time.Time) (float64, bool) {
	if x.Fixings == nil {
		return 0, false
	}
	return x.Fixings.Fixing(x.Index, date)
}

// OvernightIndex is a daily index compounded in arrears (SOFR, ESTR, TONAR,
// SONIA). The period rate combines realized daily fixings up to the curve
// settlement with the projection curve beyond it; for fully-future periods
// the daily compounding telescopes to the curve's discount factor ratio.
type OvernightIndex struct {
	Index      market.ReferenceIndex
	DC         market.DayCount
	Calendar   calendar.CalendarID
	Projection ProjectionCurve
	Fixings    FixingProvider // required only for periods already accruing
}

var _ FloatingRateIndex = (*OvernightIndex)(nil)

func (x *OvernightIndex) Name() market.ReferenceIndex { return x.Index }

func (x *OvernightIndex) DayCount() market.DayCount { return x.DC }

// SetupFloatingArguments fills args.FloatingCoupons with compounded-in-arrears
// forecast amounts. Daily fixings strictly before asOf must be published;
// the remainder of each period compounds off the projection curve.
func (x *OvernightIndex) SetupFloatingArguments(args *Arguments, leg Leg, asOf time.Time) error {
	if isNilInterface(x.Projection) {
		return fmt.Errorf("%s: %w", x.Index, ErrNilCurve)
	}

	args.FloatingCoupons = make([]float64, 0, len(leg))

	for _, cf := range leg {
		rate, err := x.compoundedRate(cf, asOf)
		if err != nil {
			return err
		}
		args.FloatingCoupons = append(args.FloatingCoupons, cf.Notional*(rate+cf.Spread)*cf.AccrualTime)
	}
	return nil
}

func (x *OvernightIndex) compoundedRate(cf CashFlow, asOf time.Time) (float64, error) {
	if cf.AccrualTime == 0 {
		return 0, nil
	}

	growth := 1.0
	cursor := cf.AccrualStart

	// Realized part: compound published fixings day by day until settlement.
	for cursor.Before(asOf) && cursor.Before(cf.AccrualEnd) {
		next := calendar.AddBusinessDays(x.Calendar, cursor, 1)
		if next.After(cf.AccrualEnd) {
			next = cf.AccrualEnd
		}
		fixing, ok := x.fixing(cursor)
		if !ok {
			return 0, fmt.Errorf("%s: missing fixing for %s", x.Index, cursor.Format("2006-01-02"))
		}
		growth *= 1.0 + fixing*utils.YearFraction(cursor, next, string(x.DC))
		cursor = next
	}

	// Forward part off the projection curve.
	if cursor.Before(cf.AccrualEnd) {
		growth *= x.Projection.DF(cursor) / x.Projection.DF(cf.AccrualEnd)
	}

	return (growth - 1.0) / cf.AccrualTime, nil
}

func (x *OvernightIndex) fixing(date time.Time) (float64, bool) {
	if x.Fixings == nil {
		return 0, false
	}
	return x.Fixings.Fixing(x.Index, date)
}
