package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/swapval/swap/market"
)

// TradeParams defines the inputs to assemble a vanilla fixed-vs-floating
// swap from leg conventions and valuation curves. Pricing is driven by the
// provided conventions and curves; the floating convention variant (term
// IBOR vs compounded overnight) is selected from the reference index.
type TradeParams struct {
	Type          SwapType
	Nominal       float64
	EffectiveDate time.Time
	MaturityDate  time.Time

	FixedLeg market.LegConvention
	FloatLeg market.LegConvention

	FixedRate float64
	Spread    float64

	Discount DiscountCurve

	// Projection defaults to Discount (single-curve valuation).
	Projection ProjectionCurve

	// Fixings is required only when a floating period is already fixing.
	Fixings FixingProvider
}

// NewVanillaSwap builds schedules and the floating index for the trade and
// constructs the instrument. The returned swap is ready to be priced with a
// DiscountingSwapEngine on the same discount curve.
func NewVanillaSwap(p TradeParams) (*FixedVsFloatingSwap, error) {
	if isNilInterface(p.Discount) {
		return nil, fmt.Errorf("NewVanillaSwap: %w", ErrNilCurve)
	}
	projection := p.Projection
	if isNilInterface(projection) {
		projection = p.Discount
	}

	fixedSchedule, err := NewSchedule(p.EffectiveDate, p.MaturityDate, p.FixedLeg)
	if err != nil {
		return nil, fmt.Errorf("NewVanillaSwap: fixed leg: %w", err)
	}
	floatingSchedule, err := NewSchedule(p.EffectiveDate, p.MaturityDate, p.FloatLeg)
	if err != nil {
		return nil, fmt.Errorf("NewVanillaSwap: floating leg: %w", err)
	}

	var index FloatingRateIndex
	if market.IsOvernight(p.FloatLeg.ReferenceRate) {
		index = &OvernightIndex{
			Index:      p.FloatLeg.ReferenceRate,
			DC:         p.FloatLeg.DayCount,
			Calendar:   p.FloatLeg.Calendar,
			Projection: projection,
			Fixings:    p.Fixings,
		}
	} else {
		index = &IborIndex{
			Index:      p.FloatLeg.ReferenceRate,
			DC:         p.FloatLeg.DayCount,
			Projection: projection,
			Fixings:    p.Fixings,
		}
	}

	return NewFixedVsFloatingSwap(FixedVsFloatingSwapParams{
		Type:             p.Type,
		Nominal:          p.Nominal,
		FixedSchedule:    fixedSchedule,
		FixedRate:        p.FixedRate,
		FixedDayCount:    p.FixedLeg.DayCount,
		FloatingSchedule: floatingSchedule,
		Index:            index,
		Spread:           p.Spread,
		FloatingDayCount: p.FloatLeg.DayCount,
	})
}
