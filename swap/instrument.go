package swap

import (
	"fmt"
	"sync"
	"time"

	"github.com/meenmo/swapval/swap/market"
)

// FixedVsFloatingSwapParams is the construction surface of the instrument.
// Economic terms are immutable once the instrument is built.
type FixedVsFloatingSwapParams struct {
	Type             SwapType
	Nominal          float64
	FixedSchedule    Schedule
	FixedRate        float64
	FixedDayCount    market.DayCount
	FloatingSchedule Schedule
	Index            FloatingRateIndex
	Spread           float64
	FloatingDayCount market.DayCount

	// PaymentConvention overrides the payment-date adjustment applied
	// uniformly to both legs. When nil, the floating schedule's convention
	// is used. The choice is resolved once at construction.
	PaymentConvention *market.BusinessDayAdjustment
}

// valuationCache holds the instrument's copy of the last completed valuation.
// valid is the invalidation token: false until a valuation completes, reset
// by Invalidate when an economic input (in practice, the curve phase)
// changes.
type valuationCache struct {
	valid      bool
	totalNPV   float64
	legNPV     [2]float64
	legBPS     [2]float64
	fairRate   Optional
	fairSpread Optional
}

// FixedVsFloatingSwap is a two-legged interest-rate exchange: one leg pays a
// fixed rate, the other a floating index plus spread. legs[0] is always the
// fixed leg and legs[1] the floating leg.
//
// Valuation follows the push/pull engine protocol: the instrument snapshots
// its cashflows into Arguments, hands them to a PricingEngine, and copies
// the Results back into its cache. The cache write is serialized by a
// per-instrument mutex, so distinct instruments can be valued concurrently
// against the same (read-only) curves.
type FixedVsFloatingSwap struct {
	typ               SwapType
	nominal           float64
	fixedSchedule     Schedule
	fixedRate         float64
	fixedDayCount     market.DayCount
	floatingSchedule  Schedule
	index             FloatingRateIndex
	spread            float64
	floatingDayCount  market.DayCount
	paymentConvention market.BusinessDayAdjustment
	legs              [2]Leg

	mu   sync.Mutex
	calc valuationCache
}

// NewFixedVsFloatingSwap builds the instrument and generates both legs once.
func NewFixedVsFloatingSwap(p FixedVsFloatingSwapParams) (*FixedVsFloatingSwap, error) {
	if p.Type != Payer && p.Type != Receiver {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: invalid swap type %d", p.Type)
	}
	if p.Index == nil {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: floating index is required")
	}
	if p.FixedDayCount == "" {
		p.FixedDayCount = market.Act365F
	}
	if p.FloatingDayCount == "" {
		p.FloatingDayCount = p.Index.DayCount()
	}

	payConv := p.FloatingSchedule.Convention
	if p.PaymentConvention != nil {
		payConv = *p.PaymentConvention
	}
	if payConv == "" {
		payConv = market.ModifiedFollowing
	}

	s := &FixedVsFloatingSwap{
		typ:               p.Type,
		nominal:           p.Nominal,
		fixedSchedule:     p.FixedSchedule,
		fixedRate:         p.FixedRate,
		fixedDayCount:     p.FixedDayCount,
		floatingSchedule:  p.FloatingSchedule,
		index:             p.Index,
		spread:            p.Spread,
		floatingDayCount:  p.FloatingDayCount,
		paymentConvention: payConv,
	}
	s.legs[0] = newFixedLeg(p.FixedSchedule, p.Nominal, p.FixedRate, p.FixedDayCount, payConv)
	s.legs[1] = newFloatingLeg(p.FloatingSchedule, p.Nominal, p.Spread, p.FloatingDayCount, payConv)
	return s, nil
}

// Inspectors of construction-time terms. All are pure reads.

func (s *FixedVsFloatingSwap) Type() SwapType { return s.typ }

func (s *FixedVsFloatingSwap) Nominal() float64 { return s.nominal }

func (s *FixedVsFloatingSwap) FixedSchedule() Schedule { return s.fixedSchedule }

func (s *FixedVsFloatingSwap) FixedRate() float64 { return s.fixedRate }

func (s *FixedVsFloatingSwap) FixedDayCount() market.DayCount { return s.fixedDayCount }

func (s *FixedVsFloatingSwap) FloatingSchedule() Schedule { return s.floatingSchedule }

func (s *FixedVsFloatingSwap) FloatingIndex() FloatingRateIndex { return s.index }

func (s *FixedVsFloatingSwap) Spread() float64 { return s.spread }

func (s *FixedVsFloatingSwap) FloatingDayCount() market.DayCount { return s.floatingDayCount }

func (s *FixedVsFloatingSwap) PaymentConvention() market.BusinessDayAdjustment {
	return s.paymentConvention
}

// FixedLeg returns legs[0].
func (s *FixedVsFloatingSwap) FixedLeg() Leg { return s.legs[0] }

// FloatingLeg returns legs[1].
func (s *FixedVsFloatingSwap) FloatingLeg() Leg { return s.legs[1] }

// MaturityDate is the latest payment date across both legs, or the zero time
// for an instrument with no cashflows.
func (s *FixedVsFloatingSwap) MaturityDate() time.Time {
	var latest time.Time
	for _, leg := range s.legs {
		for _, cf := range leg {
			if cf.PayDate.After(latest) {
				latest = cf.PayDate
			}
		}
	}
	return latest
}

// IsExpired reports whether every cashflow pays strictly before asOf.
func (s *FixedVsFloatingSwap) IsExpired(asOf time.Time) bool {
	return s.MaturityDate().Before(asOf)
}

// Calculate runs one synchronous valuation cycle: snapshot, validate, price,
// fetch. It serializes with other valuations and cache reads of the same
// instrument. Valuing an expired instrument is not an error: NPV and BPS are
// zeroed and the fair values left unset.
func (s *FixedVsFloatingSwap) Calculate(engine PricingEngine) error {
	if isNilInterface(engine) {
		return fmt.Errorf("Calculate: nil pricing engine")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IsExpired(engine.ValuationDate()) {
		s.setupExpired()
		return nil
	}

	args := new(Arguments)
	if err := s.SetupArguments(args, engine.ValuationDate()); err != nil {
		return err
	}
	if err := args.Validate(); err != nil {
		return err
	}

	results := new(Results)
	if err := engine.Calculate(args, results); err != nil {
		return err
	}
	return s.fetchResults(results)
}

// SetupArguments populates the snapshot: fixed-leg fields directly from the
// fixed leg's cashflows, floating-leg forecasts via the index hook. asOf is
// the valuation date the engine will discount to; the index uses it as the
// published-fixing cutover so the two never disagree. It fails with
// ErrTypeMismatch when handed a snapshot of the wrong concrete type.
func (s *FixedVsFloatingSwap) SetupArguments(a PricingArguments, asOf time.Time) error {
	args, ok := a.(*Arguments)
	if !ok {
		return fmt.Errorf("%w: want *swap.Arguments, got %T", ErrTypeMismatch, a)
	}

	args.Type = s.typ
	args.Nominal = OptionalOf(s.nominal)
	args.FixedRate = s.fixedRate
	args.Spread = s.spread

	fixed := s.legs[0]
	args.FixedResetDates = make([]time.Time, 0, len(fixed))
	args.FixedPayDates = make([]time.Time, 0, len(fixed))
	args.FixedAccrualTimes = make([]float64, 0, len(fixed))
	args.FixedCoupons = make([]float64, 0, len(fixed))
	for _, cf := range fixed {
		args.FixedResetDates = append(args.FixedResetDates, cf.AccrualStart)
		args.FixedPayDates = append(args.FixedPayDates, cf.PayDate)
		args.FixedAccrualTimes = append(args.FixedAccrualTimes, cf.AccrualTime)
		args.FixedCoupons = append(args.FixedCoupons, cf.Amount)
	}

	floating := s.legs[1]
	args.FloatingAccrualTimes = make([]float64, 0, len(floating))
	args.FloatingResetDates = make([]time.Time, 0, len(floating))
	args.FloatingFixingDates = make([]time.Time, 0, len(floating))
	args.FloatingPayDates = make([]time.Time, 0, len(floating))
	args.FloatingSpreads = make([]float64, 0, len(floating))
	for _, cf := range floating {
		args.FloatingAccrualTimes = append(args.FloatingAccrualTimes, cf.AccrualTime)
		args.FloatingResetDates = append(args.FloatingResetDates, cf.AccrualStart)
		args.FloatingFixingDates = append(args.FloatingFixingDates, cf.FixingDate)
		args.FloatingPayDates = append(args.FloatingPayDates, cf.PayDate)
		args.FloatingSpreads = append(args.FloatingSpreads, cf.Spread)
	}

	return s.index.SetupFloatingArguments(args, floating, asOf)
}

// setupExpired zeroes NPV/BPS and unsets the fair values: a swap with no
// remaining cashflows has no meaningful breakeven rate.
// Caller holds s.mu.
func (s *FixedVsFloatingSwap) setupExpired() {
	s.calc = valuationCache{valid: true}
}

// fetchResults copies the engine's results into the instrument cache.
// Caller holds s.mu.
func (s *FixedVsFloatingSwap) fetchResults(r PricingResults) error {
	results, ok := r.(*Results)
	if !ok {
		return fmt.Errorf("%w: want *swap.Results, got %T", ErrTypeMismatch, r)
	}
	s.calc = valuationCache{
		valid:      true,
		totalNPV:   results.TotalNPV,
		legNPV:     results.LegNPV,
		legBPS:     results.LegBPS,
		fairRate:   results.fairRate,
		fairSpread: results.fairSpread,
	}
	return nil
}

// Invalidate discards cached valuation results. Call it when curve state
// changes between valuation phases.
func (s *FixedVsFloatingSwap) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calc = valuationCache{}
}

// Cached-result inspectors. Reading before any valuation fails with
// ErrResultNotAvailable; fair values left unset by a degenerate annuity or
// an expired instrument fail with ErrUndefinedResult.

func (s *FixedVsFloatingSwap) NPV() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	return s.calc.totalNPV, nil
}

func (s *FixedVsFloatingSwap) FixedLegNPV() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	return s.calc.legNPV[0], nil
}

func (s *FixedVsFloatingSwap) FixedLegBPS() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	return s.calc.legBPS[0], nil
}

func (s *FixedVsFloatingSwap) FloatingLegNPV() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	return s.calc.legNPV[1], nil
}

func (s *FixedVsFloatingSwap) FloatingLegBPS() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	return s.calc.legBPS[1], nil
}

func (s *FixedVsFloatingSwap) FairRate() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	v, ok := s.calc.fairRate.Get()
	if !ok {
		return 0, ErrUndefinedResult
	}
	return v, nil
}

func (s *FixedVsFloatingSwap) FairSpread() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.calc.valid {
		return 0, ErrResultNotAvailable
	}
	v, ok := s.calc.fairSpread.Get()
	if !ok {
		return 0, ErrUndefinedResult
	}
	return v, nil
}
