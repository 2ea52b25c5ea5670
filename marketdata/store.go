// Package marketdata provides access to curve nodes and index fixings used
// by valuation. Stored values are carried as decimals and converted to
// float64 only at the numerics boundary.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/swapval/swap"
	"github.com/meenmo/swapval/swap/market"
)

// ErrNotFound is returned when a requested quote or fixing does not exist.
var ErrNotFound = errors.New("marketdata: not found")

// CurveNode is one discount-factor node of a stored curve snapshot.
type CurveNode struct {
	Date time.Time
	DF   decimal.Decimal
}

// Fixing is one published index fixing, as a decimal rate (0.025 == 2.5%).
type Fixing struct {
	Index market.ReferenceIndex
	Date  time.Time
	Rate  decimal.Decimal
}

// QuoteStore serves curve snapshots keyed by curve ID and curve date.
type QuoteStore interface {
	CurveNodes(ctx context.Context, curveID string, curveDate time.Time) ([]CurveNode, error)
}

// FixingStore serves and records index fixings.
type FixingStore interface {
	Fixing(ctx context.Context, index market.ReferenceIndex, date time.Time) (Fixing, error)
	SaveFixing(ctx context.Context, fixing Fixing) error
}

// DiscountFactors converts curve nodes to the float64 map consumed by
// curve.NewCurveFromDFs.
func DiscountFactors(nodes []CurveNode) map[time.Time]float64 {
	dfs := make(map[time.Time]float64, len(nodes))
	for _, n := range nodes {
		df, _ := n.DF.Float64()
		dfs[n.Date] = df
	}
	return dfs
}

// Fixings adapts a FixingStore to the swap.FixingProvider hook. The context
// is fixed at construction because fixing lookups happen deep inside a
// synchronous valuation with no suspension points.
type Fixings struct {
	ctx   context.Context
	store FixingStore
}

var _ swap.FixingProvider = (*Fixings)(nil)

// NewFixings wraps a fixing store for use as a swap.FixingProvider.
func NewFixings(ctx context.Context, store FixingStore) *Fixings {
	return &Fixings{ctx: ctx, store: store}
}

// Fixing looks up a published fixing, reporting absence instead of failing.
func (f *Fixings) Fixing(index market.ReferenceIndex, date time.Time) (float64, bool) {
	fx, err := f.store.Fixing(f.ctx, index, date)
	if err != nil {
		return 0, false
	}
	rate, _ := fx.Rate.Float64()
	return rate, true
}
