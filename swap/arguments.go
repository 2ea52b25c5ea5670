package swap

import (
	"fmt"
	"time"
)

// Arguments is the flat, engine-consumable snapshot of both legs' schedule
// and amount data plus the instrument-level scalars. It is a pure value
// exchanged once per valuation request; within a leg all parallel slices
// have equal length.
type Arguments struct {
	Type      SwapType
	Nominal   Optional
	FixedRate float64
	Spread    float64

	FixedResetDates   []time.Time
	FixedPayDates     []time.Time
	FixedAccrualTimes []float64
	FixedCoupons      []float64

	FloatingAccrualTimes []float64
	FloatingResetDates   []time.Time
	FloatingFixingDates  []time.Time
	FloatingPayDates     []time.Time
	FloatingSpreads      []float64
	FloatingCoupons      []float64
}

var _ PricingArguments = (*Arguments)(nil)

// Validate is the admission check run before calculation: parallel slices
// must agree in length within each leg and the nominal must be set. The
// engine assumes a validated snapshot.
func (a *Arguments) Validate() error {
	if !a.Nominal.IsSet() {
		return fmt.Errorf("%w: nominal is unset", ErrInvalidArguments)
	}
	if len(a.FixedPayDates) != len(a.FixedResetDates) ||
		len(a.FixedPayDates) != len(a.FixedAccrualTimes) ||
		len(a.FixedPayDates) != len(a.FixedCoupons) {
		return fmt.Errorf("%w: fixed leg arrays disagree (reset=%d pay=%d accrual=%d coupons=%d)",
			ErrInvalidArguments,
			len(a.FixedResetDates), len(a.FixedPayDates), len(a.FixedAccrualTimes), len(a.FixedCoupons))
	}
	if len(a.FloatingPayDates) != len(a.FloatingResetDates) ||
		len(a.FloatingPayDates) != len(a.FloatingFixingDates) ||
		len(a.FloatingPayDates) != len(a.FloatingAccrualTimes) ||
		len(a.FloatingPayDates) != len(a.FloatingSpreads) ||
		len(a.FloatingPayDates) != len(a.FloatingCoupons) {
		return fmt.Errorf("%w: floating leg arrays disagree (accrual=%d reset=%d fixing=%d pay=%d spreads=%d coupons=%d)",
			ErrInvalidArguments,
			len(a.FloatingAccrualTimes), len(a.FloatingResetDates), len(a.FloatingFixingDates),
			len(a.FloatingPayDates), len(a.FloatingSpreads), len(a.FloatingCoupons))
	}
	return nil
}
