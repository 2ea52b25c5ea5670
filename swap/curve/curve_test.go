package curve_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/swapval/swap/curve"
	"github.com/meenmo/swapval/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewCurveFromDFs_SettlementNode(t *testing.T) {
	t.Parallel()

	settlement := date(2026, 1, 12)
	c := curve.NewCurveFromDFs(settlement, map[time.Time]float64{
		date(2027, 1, 12): 0.97,
	})

	if got := c.DF(settlement); got != 1.0 {
		t.Fatalf("DF at settlement: got %.12f want 1", got)
	}
	if got := c.DF(date(2027, 1, 12)); got != 0.97 {
		t.Fatalf("DF at node: got %.12f want 0.97", got)
	}
	if !c.Settlement().Equal(settlement) {
		t.Fatalf("settlement: got %s", c.Settlement())
	}
}

func TestCurve_LogLinearInterpolation(t *testing.T) {
	t.Parallel()

	settlement := date(2026, 1, 12)
	d1 := date(2027, 1, 12)
	d2 := date(2028, 1, 12)
	c := curve.NewCurveFromDFs(settlement, map[time.Time]float64{
		d1: 0.97,
		d2: 0.94,
	})

	target := date(2027, 7, 12)
	t1 := utils.YearFraction(settlement, d1, c.DayCount())
	t2 := utils.YearFraction(settlement, d2, c.DayCount())
	tt := utils.YearFraction(settlement, target, c.DayCount())
	fwd := math.Log(0.97/0.94) / (t2 - t1)
	want := 0.97 * math.Exp(-fwd*(tt-t1))

	if got := c.DF(target); math.Abs(got-want) > 1e-9 {
		t.Fatalf("interpolated DF: got %.12f want %.12f", got, want)
	}

	// Extrapolation past the last node keeps the boundary forward rate, so
	// the DF keeps decaying on an upward curve.
	if got := c.DF(date(2029, 1, 12)); got >= 0.94 {
		t.Fatalf("extrapolated DF should decay past the last node, got %.12f", got)
	}
}

func TestCurve_ZeroRateRoundTrip(t *testing.T) {
	t.Parallel()

	settlement := date(2026, 1, 12)
	nodes := map[time.Time]float64{
		date(2027, 1, 12): 3.5,
		date(2031, 1, 12): 4.25,
	}
	c := curve.NewCurveFromZeros(settlement, nodes)

	for d, z := range nodes {
		if got := c.ZeroRateAt(d); math.Abs(got-z) > 1e-9 {
			t.Fatalf("zero at %s: got %.12f want %.4f", d.Format("2006-01-02"), got, z)
		}
	}
}

func TestNewFlatCurve(t *testing.T) {
	t.Parallel()

	settlement := date(2026, 1, 12)
	const zeroPct = 3.0
	c := curve.NewFlatCurve(settlement, zeroPct, date(2036, 1, 12))

	for _, d := range []time.Time{
		date(2026, 7, 12),
		date(2028, 1, 12),
		date(2033, 6, 1),
	} {
		yf := utils.YearFraction(settlement, d, c.DayCount())
		want := math.Exp(-zeroPct / 100 * yf)
		if got := c.DF(d); math.Abs(got-want) > 1e-9 {
			t.Fatalf("flat DF at %s: got %.12f want %.12f", d.Format("2006-01-02"), got, want)
		}
	}
}

func TestCurve_NodeDatesSorted(t *testing.T) {
	t.Parallel()

	settlement := date(2026, 1, 12)
	c := curve.NewCurveFromDFs(settlement, map[time.Time]float64{
		date(2031, 1, 12): 0.85,
		date(2027, 1, 12): 0.97,
		date(2029, 1, 12): 0.91,
	})

	dates := c.NodeDates()
	if len(dates) != 4 {
		t.Fatalf("node count: got %d want 4 (settlement included)", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Fatalf("node dates not ascending at %d: %s >= %s", i, dates[i-1], dates[i])
		}
	}
}
