package swaps

import (
	"github.com/meenmo/swapval/calendar"
	"github.com/meenmo/swapval/swap/market"
)

// IRSPreset groups the fixed and floating leg conventions of a vanilla
// fixed-vs-floating swap in one market.
type IRSPreset struct {
	FixedLeg market.LegConvention
	FloatLeg market.LegConvention
}

// Preset leg conventions matching standard market (and Bloomberg SWPM)
// definitions.
var (
	SOFRFixed = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              market.Act360,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          2,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.USD,
	}

	SOFRFloat = market.LegConvention{
		LegType:               market.LegFloating,
		ReferenceRate:         market.SOFR,
		DayCount:              market.Act360,
		ResetFrequency:        market.FreqDaily,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          2,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.USD,
		ResetPosition:         market.ResetInArrears,
		RateCutoffDays:        0,
	}

	ESTRFixed = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              market.Act360,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          1,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.TARGET,
	}

	ESTRFloat = market.LegConvention{
		LegType:               market.LegFloating,
		ReferenceRate:         market.ESTR,
		DayCount:              market.Act360,
		ResetFrequency:        market.FreqDaily,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          1,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.TARGET,
		ResetPosition:         market.ResetInArrears,
		RateCutoffDays:        1,
	}

	TONARFixed = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              market.Act365F,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          0,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.JPN,
	}

	TONARFloat = market.LegConvention{
		LegType:               market.LegFloating,
		ReferenceRate:         market.TONAR,
		DayCount:              market.Act365F,
		ResetFrequency:        market.FreqDaily,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          0,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.JPN,
		ResetPosition:         market.ResetInArrears,
		RateCutoffDays:        1,
	}

	// EUR IBOR structure: annual 30E/360 fixed vs semi-annual EURIBOR6M.
	EURIBOR6MFixed = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              market.Dc30360,
		PayFrequency:          market.FreqAnnual,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.TARGET,
	}

	EURIBOR6MFloat = market.LegConvention{
		LegType:               market.LegFloating,
		ReferenceRate:         market.EURIBOR6M,
		DayCount:              market.Act360,
		ResetFrequency:        market.FreqSemi,
		PayFrequency:          market.FreqSemi,
		FixingLagDays:         2,
		BusinessDayAdjustment: market.ModifiedFollowing,
		Calendar:              calendar.TARGET,
		ResetPosition:         market.ResetInAdvance,
	}
)

// Presets maps reference index names to their vanilla IRS conventions.
var Presets = map[market.ReferenceIndex]IRSPreset{
	market.SOFR:      {FixedLeg: SOFRFixed, FloatLeg: SOFRFloat},
	market.ESTR:      {FixedLeg: ESTRFixed, FloatLeg: ESTRFloat},
	market.TONAR:     {FixedLeg: TONARFixed, FloatLeg: TONARFloat},
	market.EURIBOR6M: {FixedLeg: EURIBOR6MFixed, FloatLeg: EURIBOR6MFloat},
}
