package swap

import (
	"fmt"
	"reflect"
	"time"

	"github.com/meenmo/swapval/swap/config"
)

// basisPoint is the rate shift defining BPS sensitivities.
const basisPoint = 1e-4

// PricingArguments is the push half of the engine protocol.
type PricingArguments interface {
	Validate() error
}

// PricingResults is the pull half of the engine protocol.
type PricingResults interface {
	Reset()
}

// PricingEngine prices one validated arguments snapshot into a results
// record. Implementations are pure functions of (snapshot, curve state) per
// call and hold no per-instrument state.
type PricingEngine interface {
	ValuationDate() time.Time
	Calculate(args PricingArguments, results PricingResults) error
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// DiscountingSwapEngine values a fixed-vs-floating snapshot by discounting
// each leg's cashflows and solves the breakeven fixed rate and floating
// spread in closed form: both legs are affine in their driving quantity, so
// the fair values follow from leg NPV and annuity without iteration.
type DiscountingSwapEngine struct {
	discount DiscountCurve
	asOf     time.Time
}

var _ PricingEngine = (*DiscountingSwapEngine)(nil)

// NewDiscountingSwapEngine wraps a discount curve and valuation date. The
// curve is read-only for the duration of a valuation batch; updating curves
// must happen in a distinct, non-overlapping phase.
func NewDiscountingSwapEngine(discount DiscountCurve, valuationDate time.Time) (*DiscountingSwapEngine, error) {
	if isNilInterface(discount) {
		return nil, ErrNilCurve
	}
	if valuationDate.IsZero() {
		valuationDate = discount.Settlement()
	}
	return &DiscountingSwapEngine{discount: discount, asOf: valuationDate}, nil
}

// ValuationDate returns the date cashflows are discounted to.
func (e *DiscountingSwapEngine) ValuationDate() time.Time {
	return e.asOf
}

// Calculate fills the results record from the snapshot:
//
//	legNPV  = sign x sum(amount x DF(pay))
//	legBPS  = sign x 1bp x sum(accrual x nominal x DF(pay))
//	fairRate   = fixedRate - totalNPV / (fixedLegBPS / 1bp)
//	fairSpread = spread    - totalNPV / (floatingLegBPS / 1bp)
//
// Cashflows paying strictly before the valuation date are skipped. A
// degenerate annuity (all periods expired, zero notional, empty leg) leaves
// the corresponding fair value unset; reading it yields ErrUndefinedResult
// rather than a silent zero.
//
// The snapshot is assumed validated; Validate is the caller's admission
// check.
func (e *DiscountingSwapEngine) Calculate(a PricingArguments, r PricingResults) error {
	args, ok := a.(*Arguments)
	if !ok {
		return fmt.Errorf("%w: want *swap.Arguments, got %T", ErrTypeMismatch, a)
	}
	res, ok := r.(*Results)
	if !ok {
		return fmt.Errorf("%w: want *swap.Results, got %T", ErrTypeMismatch, r)
	}

	nominal, ok := args.Nominal.Get()
	if !ok {
		return fmt.Errorf("%w: nominal is unset", ErrInvalidArguments)
	}

	res.Reset()

	fixedSign := args.Type.fixedLegSign()
	floatingSign := -fixedSign

	var fixedNPV, fixedAnnuity float64
	for i := range args.FixedCoupons {
		if args.FixedPayDates[i].Before(e.asOf) {
			continue
		}
		df := e.discount.DF(args.FixedPayDates[i])
		fixedNPV += args.FixedCoupons[i] * df
		fixedAnnuity += args.FixedAccrualTimes[i] * nominal * df
	}
	res.LegNPV[0] = fixedSign * fixedNPV
	res.LegBPS[0] = fixedSign * basisPoint * fixedAnnuity

	var floatingNPV, floatingAnnuity float64
	for i := range args.FloatingCoupons {
		if args.FloatingPayDates[i].Before(e.asOf) {
			continue
		}
		df := e.discount.DF(args.FloatingPayDates[i])
		floatingNPV += args.FloatingCoupons[i] * df
		floatingAnnuity += args.FloatingAccrualTimes[i] * nominal * df
	}
	res.LegNPV[1] = floatingSign * floatingNPV
	res.LegBPS[1] = floatingSign * basisPoint * floatingAnnuity

	res.TotalNPV = res.LegNPV[0] + res.LegNPV[1]

	threshold := config.GetConfig().DerivativeThreshold
	if fixedAnnuity > threshold {
		res.fairRate = OptionalOf(args.FixedRate - res.TotalNPV/(res.LegBPS[0]/basisPoint))
	}
	if floatingAnnuity > threshold {
		res.fairSpread = OptionalOf(args.Spread - res.TotalNPV/(res.LegBPS[1]/basisPoint))
	}
	return nil
}
