package curve

import (
	"math"
	"time"

	"github.com/meenmo/swapval/swap/config"
	"github.com/meenmo/swapval/utils"
)

// Curve is an immutable discount-factor term structure built from explicit
// nodes. It serves both discounting and forward projection; calibration to
// market instruments happens upstream and is out of scope here.
type Curve struct {
	settlement      time.Time
	nodeDates       []time.Time
	discountFactors map[time.Time]float64
	zeros           map[time.Time]float64 // percent
	curveDayCount   string
}

// curveDayCount is the time basis for the curve axis. Market convention
// (Bloomberg ICVS) interpolates discount curves on ACT/365F regardless of
// currency; leg-specific day counts apply to coupon accrual only.
const defaultCurveDayCount = "ACT/365F"

// NewCurveFromDFs creates a curve from explicitly provided discount factors.
//
// Dates between nodes are log-linearly interpolated; dates outside the node
// range extrapolate on the nearest boundary pair. To keep valuation exact,
// provide DFs at all cashflow payment dates.
func NewCurveFromDFs(settlement time.Time, dfs map[time.Time]float64) *Curve {
	c := &Curve{
		settlement:      settlement,
		discountFactors: make(map[time.Time]float64, len(dfs)+1),
		curveDayCount:   defaultCurveDayCount,
	}

	for t, df := range dfs {
		c.discountFactors[t] = df
	}
	if _, ok := c.discountFactors[settlement]; !ok {
		c.discountFactors[settlement] = 1.0
	}

	for t := range c.discountFactors {
		c.nodeDates = append(c.nodeDates, t)
	}
	utils.SortDates(c.nodeDates)

	c.zeros = c.buildZero()
	return c
}

// NewCurveFromZeros creates a curve from continuously-compounded zero rates
// (in percent) at the given node dates.
func NewCurveFromZeros(settlement time.Time, zeros map[time.Time]float64) *Curve {
	dfs := make(map[time.Time]float64, len(zeros))
	for t, z := range zeros {
		yearFrac := utils.YearFraction(settlement, t, defaultCurveDayCount)
		dfs[t] = math.Exp(-z / 100 * yearFrac)
	}
	return NewCurveFromDFs(settlement, dfs)
}

// NewFlatCurve creates a curve with a single continuously-compounded zero
// rate (in percent) applied at every horizon out to maxDate.
func NewFlatCurve(settlement time.Time, zeroPct float64, maxDate time.Time) *Curve {
	return NewCurveFromZeros(settlement, map[time.Time]float64{
		settlement.AddDate(0, 0, 1): zeroPct,
		maxDate:                     zeroPct,
	})
}

func (c *Curve) buildZero() map[time.Time]float64 {
	zc := make(map[time.Time]float64, len(c.nodeDates))
	for _, d := range c.nodeDates {
		yearFrac := utils.YearFraction(c.settlement, d, c.curveDayCount)
		if yearFrac == 0 {
			zc[d] = 0
			continue
		}
		df := c.discountFactors[d]
		zc[d] = utils.RoundTo(-math.Log(df)/yearFrac*100, 12)
	}
	return zc
}

// DF returns the discount factor at t, log-linearly interpolated between nodes.
func (c *Curve) DF(t time.Time) float64 {
	if df, ok := c.discountFactors[t]; ok {
		return df
	}
	if len(c.nodeDates) < 2 {
		return c.discountFactors[c.nodeDates[0]]
	}

	d1, d2 := utils.AdjacentDates(t, c.nodeDates)
	df1 := c.discountFactors[d1]
	df2 := c.discountFactors[d2]

	t1 := utils.YearFraction(c.settlement, d1, c.curveDayCount)
	t2 := utils.YearFraction(c.settlement, d2, c.curveDayCount)
	tTarget := utils.YearFraction(c.settlement, t, c.curveDayCount)

	if t2 == t1 {
		return df1
	}
	forwardRate := math.Log(df1/df2) / (t2 - t1)
	df := utils.RoundTo(df1*math.Exp(-forwardRate*(tTarget-t1)), 12)

	if floor := config.GetConfig().MinDiscountFactor; df < floor {
		return floor
	}
	return df
}

// ZeroRateAt returns the continuously-compounded zero rate (in percent) at t.
func (c *Curve) ZeroRateAt(t time.Time) float64 {
	if z, ok := c.zeros[t]; ok {
		return z
	}
	yearFrac := utils.YearFraction(c.settlement, t, c.curveDayCount)
	if yearFrac == 0 {
		return 0
	}
	return utils.RoundTo(-math.Log(c.DF(t))/yearFrac*100, 12)
}

// Settlement returns the curve's settlement date.
func (c *Curve) Settlement() time.Time {
	return c.settlement
}

// DayCount returns the curve's time-axis day count convention.
func (c *Curve) DayCount() string {
	return c.curveDayCount
}

// NodeDates returns the curve's node date grid in ascending order.
func (c *Curve) NodeDates() []time.Time {
	out := make([]time.Time, len(c.nodeDates))
	copy(out, c.nodeDates)
	return out
}

// PillarDFs returns the discount factors keyed by node date.
// For diagnostic purposes only.
func (c *Curve) PillarDFs() map[time.Time]float64 {
	result := make(map[time.Time]float64, len(c.discountFactors))
	for k, v := range c.discountFactors {
		result[k] = v
	}
	return result
}
