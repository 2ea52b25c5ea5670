package swap_test

import (
	"testing"
	"time"

	"github.com/meenmo/swapval/calendar"
	"github.com/meenmo/swapval/swap"
	"github.com/meenmo/swapval/swap/market"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSchedule_SingleAnnualPeriod(t *testing.T) {
	t.Parallel()

	sched, err := swap.NewSchedule(date(2026, 1, 12), date(2027, 1, 12), testFixedLeg())
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if len(sched.Periods) != 1 {
		t.Fatalf("periods: got %d want 1", len(sched.Periods))
	}

	p := sched.Periods[0]
	if !p.StartDate.Equal(date(2026, 1, 12)) || !p.EndDate.Equal(date(2027, 1, 12)) {
		t.Fatalf("accrual period: got [%s, %s]", p.StartDate, p.EndDate)
	}
	if !p.PayDate.Equal(date(2027, 1, 12)) {
		t.Fatalf("pay date: got %s want 2027-01-12", p.PayDate)
	}
	if p.AccrualDays != 365 {
		t.Fatalf("accrual days: got %d want 365", p.AccrualDays)
	}
	if !sched.LastPayDate().Equal(date(2027, 1, 12)) {
		t.Fatalf("last pay date: got %s", sched.LastPayDate())
	}
}

func TestNewSchedule_SemiAnnualRollsFromUnadjustedDates(t *testing.T) {
	t.Parallel()

	leg := testFixedLeg()
	leg.PayFrequency = market.FreqSemi

	sched, err := swap.NewSchedule(date(2026, 1, 12), date(2028, 1, 12), leg)
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if len(sched.Periods) != 4 {
		t.Fatalf("periods: got %d want 4", len(sched.Periods))
	}

	// Boundaries roll from the unadjusted anchor, so 2026-07-12 (a Sunday)
	// stays the anchor for the following period even under other conventions.
	wantBoundaries := []time.Time{
		date(2026, 1, 12), date(2026, 7, 12), date(2027, 1, 12), date(2027, 7, 12), date(2028, 1, 12),
	}
	for i, p := range sched.Periods {
		if !p.StartDate.Equal(wantBoundaries[i]) || !p.EndDate.Equal(wantBoundaries[i+1]) {
			t.Fatalf("period %d: got [%s, %s] want [%s, %s]",
				i, p.StartDate, p.EndDate, wantBoundaries[i], wantBoundaries[i+1])
		}
	}
}

func TestNewSchedule_ModifiedFollowingAdjustsBoundaries(t *testing.T) {
	t.Parallel()

	// 2026-01-10 is a Saturday, 2027-01-10 a Sunday.
	leg := testFixedLeg()
	leg.BusinessDayAdjustment = market.ModifiedFollowing
	leg.PayDelayDays = 2

	sched, err := swap.NewSchedule(date(2026, 1, 10), date(2027, 1, 10), leg)
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if len(sched.Periods) != 1 {
		t.Fatalf("periods: got %d want 1", len(sched.Periods))
	}

	p := sched.Periods[0]
	if !p.StartDate.Equal(date(2026, 1, 12)) {
		t.Fatalf("start: got %s want 2026-01-12 (Monday)", p.StartDate)
	}
	if !p.EndDate.Equal(date(2027, 1, 11)) {
		t.Fatalf("end: got %s want 2027-01-11 (Monday)", p.EndDate)
	}
	if !p.PayDate.Equal(date(2027, 1, 13)) {
		t.Fatalf("pay (T+2): got %s want 2027-01-13", p.PayDate)
	}
	if p.AccrualDays != 364 {
		t.Fatalf("accrual days: got %d want 364", p.AccrualDays)
	}
}

func TestNewSchedule_InArrearsFixingNearPeriodEnd(t *testing.T) {
	t.Parallel()

	leg := testOvernightLeg()
	leg.RateCutoffDays = 1

	sched, err := swap.NewSchedule(date(2026, 1, 12), date(2027, 1, 12), leg)
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if len(sched.Periods) != 1 {
		t.Fatalf("periods: got %d want 1", len(sched.Periods))
	}

	// One business day back from the 2027-01-12 (Tuesday) period end.
	if got := sched.Periods[0].FixingDate; !got.Equal(date(2027, 1, 11)) {
		t.Fatalf("fixing date: got %s want 2027-01-11", got)
	}
}

func TestNewSchedule_ShortStubYieldsEmptySchedule(t *testing.T) {
	t.Parallel()

	sched, err := swap.NewSchedule(date(2026, 1, 12), date(2026, 6, 30), testFixedLeg())
	if err != nil {
		t.Fatalf("NewSchedule error: %v", err)
	}
	if len(sched.Periods) != 0 {
		t.Fatalf("periods: got %d want 0", len(sched.Periods))
	}
	if !sched.LastPayDate().IsZero() {
		t.Fatalf("empty schedule last pay date should be zero, got %s", sched.LastPayDate())
	}
	if sched.Calendar != calendar.TARGET {
		t.Fatalf("calendar should survive an empty schedule, got %s", sched.Calendar)
	}
}

func TestNewSchedule_Rejections(t *testing.T) {
	t.Parallel()

	if _, err := swap.NewSchedule(date(2027, 1, 12), date(2026, 1, 12), testFixedLeg()); err == nil {
		t.Fatal("maturity before effective should fail")
	}

	leg := testFixedLeg()
	leg.PayFrequency = market.FreqDaily
	if _, err := swap.NewSchedule(date(2026, 1, 12), date(2027, 1, 12), leg); err == nil {
		t.Fatal("non-positive pay frequency should fail")
	}
}
