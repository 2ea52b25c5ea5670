package swap

// Results is the record written by the engine and read back by the
// instrument. Fair values start in an explicit unset state distinguishable
// from a computed zero; NPV and BPS scalars are plain values, zeroed on
// reset.
type Results struct {
	TotalNPV float64
	LegNPV   [2]float64 // [0] fixed, [1] floating
	LegBPS   [2]float64

	fairRate   Optional
	fairSpread Optional
}

var _ PricingResults = (*Results)(nil)

// Reset restores the pristine state so the record can be reused across
// valuation calls without leaking a prior answer when a later calculation
// fails partway.
func (r *Results) Reset() {
	*r = Results{}
}

// FairRate returns the breakeven fixed rate, or ErrUndefinedResult when the
// fixed-leg annuity was degenerate and no fair rate exists.
func (r *Results) FairRate() (float64, error) {
	v, ok := r.fairRate.Get()
	if !ok {
		return 0, ErrUndefinedResult
	}
	return v, nil
}

// FairSpread returns the breakeven floating spread, or ErrUndefinedResult
// when the floating-leg annuity was degenerate.
func (r *Results) FairSpread() (float64, error) {
	v, ok := r.fairSpread.Get()
	if !ok {
		return 0, ErrUndefinedResult
	}
	return v, nil
}
