package swap

import (
	"errors"
	"time"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")

	// ErrInvalidArguments is returned by snapshot validation when parallel
	// arrays have mismatched lengths within a leg or the nominal is unset.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrTypeMismatch is returned when a wrong concrete arguments/results
	// type is supplied to the pricing protocol.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUndefinedResult is returned when a degenerate annuity makes the
	// fair rate or fair spread mathematically undefined.
	ErrUndefinedResult = errors.New("undefined result")

	// ErrResultNotAvailable is returned when a result inspector is read
	// before any valuation has run.
	ErrResultNotAvailable = errors.New("result not available")
)

// DiscountCurve provides discount factors and zero rates for valuation.
type DiscountCurve interface {
	DF(t time.Time) float64
	ZeroRateAt(t time.Time) float64
	Settlement() time.Time
}

// ProjectionCurve provides discount factors used to infer forward rates.
type ProjectionCurve interface {
	DF(t time.Time) float64
	Settlement() time.Time
}

// SwapType fixes the sign convention of the two legs: a Payer swap pays the
// fixed leg and receives the floating leg, a Receiver swap is the mirror.
// All leg-sign multipliers derive from this tag.
type SwapType int

const (
	Payer SwapType = iota + 1
	Receiver
)

func (t SwapType) String() string {
	switch t {
	case Payer:
		return "Payer"
	case Receiver:
		return "Receiver"
	default:
		return "Unknown"
	}
}

// fixedLegSign is the multiplier applied to fixed-leg cashflows.
// The floating leg always carries the opposite sign.
func (t SwapType) fixedLegSign() float64 {
	if t == Payer {
		return -1.0
	}
	return 1.0
}

// Optional is a float64 that distinguishes "unset" from a computed zero, so
// an unset nominal or fair value can never be mistaken for a real quantity.
// The zero value is unset.
type Optional struct {
	value float64
	set   bool
}

// OptionalOf returns a set Optional holding v.
func OptionalOf(v float64) Optional {
	return Optional{value: v, set: true}
}

// Get returns the held value and whether it is set.
func (o Optional) Get() (float64, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is held.
func (o Optional) IsSet() bool {
	return o.set
}
