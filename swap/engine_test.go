package swap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/swapval/swap"
	"github.com/meenmo/swapval/swap/curve"
)

// Reference scenario: payer swap, one annual period, notional 1mm.
// Fixed 5.00% vs floating forecast 3.00%, DF 0.98 at the payment date.
//
//	fixed leg NPV    = -(1,000,000 x 0.05 x 1.0 x 0.98) = -49,000
//	floating leg NPV = +(1,000,000 x 0.03 x 1.0 x 0.98) = +29,400
//	total NPV        = -19,600
//	fixed leg BPS    = -98, floating leg BPS = +98
//	fair rate        = 0.05 - (-19,600)/(-980,000) = 0.03
//	fair spread      = 0.00 - (-19,600)/(+980,000) = +0.02
func singlePeriodArgs(typ swap.SwapType, nominal, fixedRate, floatCoupon float64) *swap.Arguments {
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	pay := time.Date(2027, 1, 12, 0, 0, 0, 0, time.UTC)

	return &swap.Arguments{
		Type:      typ,
		Nominal:   swap.OptionalOf(nominal),
		FixedRate: fixedRate,
		Spread:    0.0,

		FixedResetDates:   []time.Time{start},
		FixedPayDates:     []time.Time{pay},
		FixedAccrualTimes: []float64{1.0},
		FixedCoupons:      []float64{nominal * fixedRate * 1.0},

		FloatingAccrualTimes: []float64{1.0},
		FloatingResetDates:   []time.Time{start},
		FloatingFixingDates:  []time.Time{start},
		FloatingPayDates:     []time.Time{pay},
		FloatingSpreads:      []float64{0.0},
		FloatingCoupons:      []float64{floatCoupon},
	}
}

func singlePeriodCurve() *curve.Curve {
	settlement := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	return curve.NewCurveFromDFs(settlement, map[time.Time]float64{
		time.Date(2027, 1, 12, 0, 0, 0, 0, time.UTC): 0.98,
	})
}

func TestDiscountingSwapEngine_PayerSinglePeriod(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	args := singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000)
	results := new(swap.Results)
	if err := engine.Calculate(args, results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	const tol = 1e-6
	if math.Abs(results.LegNPV[0]-(-49_000)) > tol {
		t.Fatalf("fixed leg NPV: got %.6f want -49000", results.LegNPV[0])
	}
	if math.Abs(results.LegNPV[1]-29_400) > tol {
		t.Fatalf("floating leg NPV: got %.6f want 29400", results.LegNPV[1])
	}
	if math.Abs(results.TotalNPV-(-19_600)) > tol {
		t.Fatalf("total NPV: got %.6f want -19600", results.TotalNPV)
	}
	if math.Abs(results.LegBPS[0]-(-98)) > tol {
		t.Fatalf("fixed leg BPS: got %.9f want -98", results.LegBPS[0])
	}
	if math.Abs(results.LegBPS[1]-98) > tol {
		t.Fatalf("floating leg BPS: got %.9f want 98", results.LegBPS[1])
	}

	fairRate, err := results.FairRate()
	if err != nil {
		t.Fatalf("FairRate error: %v", err)
	}
	if math.Abs(fairRate-0.03) > 1e-12 {
		t.Fatalf("fair rate: got %.12f want 0.03", fairRate)
	}

	fairSpread, err := results.FairSpread()
	if err != nil {
		t.Fatalf("FairSpread error: %v", err)
	}
	if math.Abs(fairSpread-0.02) > 1e-12 {
		t.Fatalf("fair spread: got %.12f want 0.02", fairSpread)
	}
}

func TestDiscountingSwapEngine_ReceiverMirrorsLegSigns(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	payer := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000), payer); err != nil {
		t.Fatalf("Calculate(payer) error: %v", err)
	}
	receiver := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Receiver, 1_000_000, 0.05, 30_000), receiver); err != nil {
		t.Fatalf("Calculate(receiver) error: %v", err)
	}

	const tol = 1e-9
	if math.Abs(payer.TotalNPV+receiver.TotalNPV) > tol {
		t.Fatalf("receiver NPV should mirror payer: payer %.6f receiver %.6f", payer.TotalNPV, receiver.TotalNPV)
	}
	for i := range payer.LegNPV {
		if math.Abs(payer.LegNPV[i]+receiver.LegNPV[i]) > tol {
			t.Fatalf("leg %d NPV should flip sign: payer %.6f receiver %.6f", i, payer.LegNPV[i], receiver.LegNPV[i])
		}
		if math.Abs(payer.LegBPS[i]+receiver.LegBPS[i]) > tol {
			t.Fatalf("leg %d BPS should flip sign: payer %.6f receiver %.6f", i, payer.LegBPS[i], receiver.LegBPS[i])
		}
	}

	// The breakeven terms are a property of the market, not of the side taken.
	payerRate, _ := payer.FairRate()
	receiverRate, _ := receiver.FairRate()
	if math.Abs(payerRate-receiverRate) > tol {
		t.Fatalf("fair rate should not depend on side: payer %.9f receiver %.9f", payerRate, receiverRate)
	}
	payerSpread, _ := payer.FairSpread()
	receiverSpread, _ := receiver.FairSpread()
	if math.Abs(payerSpread-receiverSpread) > tol {
		t.Fatalf("fair spread should not depend on side: payer %.9f receiver %.9f", payerSpread, receiverSpread)
	}
}

func TestDiscountingSwapEngine_FairValuesPlugBackToZeroNPV(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	results := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000), results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	fairRate, err := results.FairRate()
	if err != nil {
		t.Fatalf("FairRate error: %v", err)
	}

	// Re-striking the fixed leg at the fair rate should price to par.
	repriced := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, fairRate, 30_000), repriced); err != nil {
		t.Fatalf("Calculate(repriced) error: %v", err)
	}
	if math.Abs(repriced.TotalNPV) > 1e-6 {
		t.Fatalf("NPV at fair rate should be ~0, got %.9f", repriced.TotalNPV)
	}
}

func TestDiscountingSwapEngine_FairSpreadPlugsBackToZeroNPV(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	results := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000), results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	fairSpread, err := results.FairSpread()
	if err != nil {
		t.Fatalf("FairSpread error: %v", err)
	}

	// A spread shift moves the forecast coupon by nominal x spread x accrual.
	args := singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000)
	args.Spread = fairSpread
	args.FloatingSpreads[0] = fairSpread
	args.FloatingCoupons[0] = 1_000_000 * (0.03 + fairSpread) * 1.0

	repriced := new(swap.Results)
	if err := engine.Calculate(args, repriced); err != nil {
		t.Fatalf("Calculate(repriced) error: %v", err)
	}
	if math.Abs(repriced.TotalNPV) > 1e-6 {
		t.Fatalf("NPV at fair spread should be ~0, got %.9f", repriced.TotalNPV)
	}
}

func TestDiscountingSwapEngine_NPVMonotonicity(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	npvAt := func(fixedRate, floatCoupon float64) float64 {
		results := new(swap.Results)
		if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, fixedRate, floatCoupon), results); err != nil {
			t.Fatalf("Calculate error: %v", err)
		}
		return results.TotalNPV
	}

	// Paying a higher fixed rate strictly lowers a payer's NPV.
	if lo, hi := npvAt(0.06, 30_000), npvAt(0.04, 30_000); lo >= hi {
		t.Fatalf("payer NPV should fall as the paid rate rises: NPV(6%%)=%.2f NPV(4%%)=%.2f", lo, hi)
	}

	// Receiving a larger floating coupon strictly raises it.
	if lo, hi := npvAt(0.05, 30_000), npvAt(0.05, 40_000); lo >= hi {
		t.Fatalf("payer NPV should rise with the received floating coupon: got %.2f vs %.2f", lo, hi)
	}
}

func TestDiscountingSwapEngine_ZeroNotionalLeavesFairValuesUnset(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	results := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 0, 0.05, 0), results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	if results.TotalNPV != 0 {
		t.Fatalf("zero-notional NPV should be 0, got %.9f", results.TotalNPV)
	}
	if _, err := results.FairRate(); !errors.Is(err, swap.ErrUndefinedResult) {
		t.Fatalf("FairRate on degenerate annuity: got %v, want ErrUndefinedResult", err)
	}
	if _, err := results.FairSpread(); !errors.Is(err, swap.ErrUndefinedResult) {
		t.Fatalf("FairSpread on degenerate annuity: got %v, want ErrUndefinedResult", err)
	}
}

func TestDiscountingSwapEngine_SkipsCashflowsPaidBeforeValuation(t *testing.T) {
	t.Parallel()

	settlement := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	pastPay := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	futurePay := time.Date(2027, 1, 12, 0, 0, 0, 0, time.UTC)
	disc := curve.NewCurveFromDFs(settlement, map[time.Time]float64{futurePay: 0.98})

	engine, err := swap.NewDiscountingSwapEngine(disc, settlement)
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	args := singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000)
	args.FixedResetDates = append([]time.Time{pastPay.AddDate(-1, 0, 0)}, args.FixedResetDates...)
	args.FixedPayDates = append([]time.Time{pastPay}, args.FixedPayDates...)
	args.FixedAccrualTimes = append([]float64{1.0}, args.FixedAccrualTimes...)
	args.FixedCoupons = append([]float64{50_000}, args.FixedCoupons...)

	results := new(swap.Results)
	if err := engine.Calculate(args, results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	// Only the live period contributes: same numbers as the single-period case.
	if math.Abs(results.LegNPV[0]-(-49_000)) > 1e-6 {
		t.Fatalf("fixed leg NPV should exclude the expired coupon: got %.6f want -49000", results.LegNPV[0])
	}
	if math.Abs(results.LegBPS[0]-(-98)) > 1e-6 {
		t.Fatalf("fixed leg BPS should exclude the expired period: got %.9f want -98", results.LegBPS[0])
	}
}

type bogusArgs struct{}

func (bogusArgs) Validate() error { return nil }

type bogusResults struct{}

func (bogusResults) Reset() {}

func TestDiscountingSwapEngine_TypeMismatch(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	if err := engine.Calculate(bogusArgs{}, new(swap.Results)); !errors.Is(err, swap.ErrTypeMismatch) {
		t.Fatalf("wrong arguments type: got %v, want ErrTypeMismatch", err)
	}
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000), bogusResults{}); !errors.Is(err, swap.ErrTypeMismatch) {
		t.Fatalf("wrong results type: got %v, want ErrTypeMismatch", err)
	}
}

func TestNewDiscountingSwapEngine(t *testing.T) {
	t.Parallel()

	if _, err := swap.NewDiscountingSwapEngine(nil, time.Time{}); !errors.Is(err, swap.ErrNilCurve) {
		t.Fatalf("nil curve: got %v, want ErrNilCurve", err)
	}

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, time.Time{})
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}
	if !engine.ValuationDate().Equal(disc.Settlement()) {
		t.Fatalf("zero valuation date should default to curve settlement: got %s", engine.ValuationDate())
	}
}

func TestResults_ResetClearsPriorAnswer(t *testing.T) {
	t.Parallel()

	disc := singlePeriodCurve()
	engine, err := swap.NewDiscountingSwapEngine(disc, disc.Settlement())
	if err != nil {
		t.Fatalf("NewDiscountingSwapEngine error: %v", err)
	}

	results := new(swap.Results)
	if err := engine.Calculate(singlePeriodArgs(swap.Payer, 1_000_000, 0.05, 30_000), results); err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	results.Reset()
	if results.TotalNPV != 0 || results.LegNPV != [2]float64{} || results.LegBPS != [2]float64{} {
		t.Fatalf("Reset should zero NPV and BPS: %+v", results)
	}
	if _, err := results.FairRate(); !errors.Is(err, swap.ErrUndefinedResult) {
		t.Fatalf("FairRate after Reset: got %v, want ErrUndefinedResult", err)
	}
}
