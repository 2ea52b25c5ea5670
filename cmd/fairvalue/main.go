package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/swapval/instruments/swaps"
	"github.com/meenmo/swapval/marketdata"
	"github.com/meenmo/swapval/swap"
	"github.com/meenmo/swapval/swap/curve"
	"github.com/meenmo/swapval/swap/market"
)

// PricingInput defines the JSON input schema for fair rate / fair spread
// valuation of a fixed-vs-floating swap.
type PricingInput struct {
	TaskID string `json:"task_id,omitempty"`

	ValuationDate string  `json:"valuation_date"`
	SwapType      string  `json:"swap_type"` // PAYER or RECEIVER
	Nominal       float64 `json:"nominal"`
	FixedRate     float64 `json:"fixed_rate"` // decimal, 0.05 == 5%
	Spread        float64 `json:"spread"`     // decimal
	Index         string  `json:"index"`      // preset key: SOFR, ESTR, TONAR, EURIBOR6M
	EffectiveDate string  `json:"effective_date"`
	MaturityDate  string  `json:"maturity_date"`

	// Discount factor nodes keyed by YYYY-MM-DD. ProjectionDFs defaults to
	// DiscountDFs (single-curve valuation).
	DiscountDFs   map[string]float64 `json:"discount_dfs"`
	ProjectionDFs map[string]float64 `json:"projection_dfs,omitempty"`

	// Published fixings keyed by YYYY-MM-DD, as decimals.
	Fixings map[string]float64 `json:"fixings,omitempty"`
}

// PricingOutput defines the JSON output schema. Fair values are omitted when
// mathematically undefined (degenerate annuity), never reported as zero.
type PricingOutput struct {
	TaskID         string   `json:"task_id,omitempty"`
	TotalNPV       float64  `json:"total_npv"`
	FixedLegNPV    float64  `json:"fixed_leg_npv"`
	FixedLegBPS    float64  `json:"fixed_leg_bps"`
	FloatingLegNPV float64  `json:"floating_leg_npv"`
	FloatingLegBPS float64  `json:"floating_leg_bps"`
	FairRate       *float64 `json:"fair_rate,omitempty"`
	FairSpread     *float64 `json:"fair_spread,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		usage()
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			usage()
			os.Exit(2)
		}
	}

	inputBytes, err := readInput(path)
	if err != nil {
		writeError(fmt.Sprintf("failed to read input: %v", err))
		return
	}

	inputs, isArray, err := parseInputs(inputBytes)
	if err != nil {
		writeError(fmt.Sprintf("failed to parse JSON input: %v", err))
		return
	}

	hadError := false
	outputs := make([]PricingOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := calculateFairValues(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, PricingOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		outputBytes, _ := json.Marshal(outputs)
		fmt.Println(string(outputBytes))
	} else {
		outputBytes, _ := json.Marshal(outputs[0])
		fmt.Println(string(outputBytes))
	}

	if hadError {
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  fairvalue < input.json")
	fmt.Println("  fairvalue -input /path/to/input.json")
	fmt.Println()
	fmt.Println("Read JSON input, value a fixed-vs-floating swap, output JSON to stdout.")
	fmt.Println()
	fmt.Println("Example input:")
	fmt.Println(`  {`)
	fmt.Println(`    "valuation_date": "2026-01-09",`)
	fmt.Println(`    "swap_type": "PAYER",`)
	fmt.Println(`    "nominal": 1000000,`)
	fmt.Println(`    "fixed_rate": 0.05,`)
	fmt.Println(`    "spread": 0.0,`)
	fmt.Println(`    "index": "SOFR",`)
	fmt.Println(`    "effective_date": "2026-01-09",`)
	fmt.Println(`    "maturity_date": "2031-01-09",`)
	fmt.Println(`    "discount_dfs": {"2027-01-11": 0.96, ...}`)
	fmt.Println(`  }`)
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]PricingInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}

	if trimmed[0] == '[' {
		var inputs []PricingInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}

	var input PricingInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []PricingInput{input}, false, nil
}

func writeError(msg string) {
	output := PricingOutput{Error: msg}
	outputBytes, _ := json.Marshal(output)
	fmt.Println(string(outputBytes))
	os.Exit(1)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", field, err)
	}
	return t, nil
}

func parseDFNodes(field string, raw map[string]float64) (map[time.Time]float64, error) {
	dfs := make(map[time.Time]float64, len(raw))
	for k, v := range raw {
		d, err := parseDate(field, k)
		if err != nil {
			return nil, err
		}
		dfs[d] = v
	}
	return dfs, nil
}

func calculateFairValues(input PricingInput) (*PricingOutput, error) {
	valuationDate, err := parseDate("valuation_date", input.ValuationDate)
	if err != nil {
		return nil, err
	}
	effective, err := parseDate("effective_date", input.EffectiveDate)
	if err != nil {
		return nil, err
	}
	maturity, err := parseDate("maturity_date", input.MaturityDate)
	if err != nil {
		return nil, err
	}

	var swapType swap.SwapType
	switch strings.ToUpper(input.SwapType) {
	case "PAYER":
		swapType = swap.Payer
	case "RECEIVER":
		swapType = swap.Receiver
	default:
		return nil, fmt.Errorf("invalid swap_type: %q (must be PAYER or RECEIVER)", input.SwapType)
	}

	indexName := market.ReferenceIndex(strings.ToUpper(input.Index))
	preset, ok := swaps.Presets[indexName]
	if !ok {
		return nil, fmt.Errorf("unknown index: %s", input.Index)
	}

	if len(input.DiscountDFs) == 0 {
		return nil, fmt.Errorf("discount_dfs is required")
	}
	discountNodes, err := parseDFNodes("discount_dfs", input.DiscountDFs)
	if err != nil {
		return nil, err
	}
	discount := curve.NewCurveFromDFs(valuationDate, discountNodes)

	projection := discount
	if len(input.ProjectionDFs) > 0 {
		projectionNodes, err := parseDFNodes("projection_dfs", input.ProjectionDFs)
		if err != nil {
			return nil, err
		}
		projection = curve.NewCurveFromDFs(valuationDate, projectionNodes)
	}

	ctx := context.Background()
	store := marketdata.NewMemoryStore()
	for k, v := range input.Fixings {
		d, err := parseDate("fixings", k)
		if err != nil {
			return nil, err
		}
		if err := store.SaveFixing(ctx, marketdata.Fixing{
			Index: indexName,
			Date:  d,
			Rate:  decimal.NewFromFloat(v),
		}); err != nil {
			return nil, err
		}
	}
	fixings := marketdata.NewFixings(ctx, store)

	instrument, err := swap.NewVanillaSwap(swap.TradeParams{
		Type:          swapType,
		Nominal:       input.Nominal,
		EffectiveDate: effective,
		MaturityDate:  maturity,
		FixedLeg:      preset.FixedLeg,
		FloatLeg:      preset.FloatLeg,
		FixedRate:     input.FixedRate,
		Spread:        input.Spread,
		Discount:      discount,
		Projection:    projection,
		Fixings:       fixings,
	})
	if err != nil {
		return nil, err
	}

	engine, err := swap.NewDiscountingSwapEngine(discount, valuationDate)
	if err != nil {
		return nil, err
	}
	if err := instrument.Calculate(engine); err != nil {
		return nil, err
	}

	return buildOutput(input.TaskID, instrument)
}

func buildOutput(taskID string, instrument *swap.FixedVsFloatingSwap) (*PricingOutput, error) {
	out := &PricingOutput{TaskID: taskID}

	var err error
	if out.TotalNPV, err = instrument.NPV(); err != nil {
		return nil, err
	}
	if out.FixedLegNPV, err = instrument.FixedLegNPV(); err != nil {
		return nil, err
	}
	if out.FixedLegBPS, err = instrument.FixedLegBPS(); err != nil {
		return nil, err
	}
	if out.FloatingLegNPV, err = instrument.FloatingLegNPV(); err != nil {
		return nil, err
	}
	if out.FloatingLegBPS, err = instrument.FloatingLegBPS(); err != nil {
		return nil, err
	}

	// Undefined fair values are omitted from the payload, not zeroed.
	if fairRate, err := instrument.FairRate(); err == nil {
		out.FairRate = &fairRate
	}
	if fairSpread, err := instrument.FairSpread(); err == nil {
		out.FairSpread = &fairSpread
	}
	return out, nil
}
