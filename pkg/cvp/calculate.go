package cvp

import "math"

// Epsilon is the threshold below which a denominator or margin ratio is
// treated as zero. It absorbs floating-point error around exact zero.
const Epsilon = 1e-10

// Calculated holds every figure derived from an [Input].
// Sales-denominated ratios are fractions (0.38 means 38%).
type Calculated struct {
	ContributionMargin      float64 `json:"contribution_margin"`
	ContributionMarginRatio float64 `json:"contribution_margin_ratio"`
	OperatingProfit         float64 `json:"operating_profit"`
	OperatingProfitRatio    float64 `json:"operating_profit_ratio"`
	TotalCosts              float64 `json:"total_costs"`
	VariableCostRatio       float64 `json:"variable_cost_ratio"`
	FixedCostRatio          float64 `json:"fixed_cost_ratio"`

	BreakEvenPoint    Optional `json:"break_even_point"`
	BreakEvenRatio    Optional `json:"break_even_ratio"`
	SafetyMargin      Optional `json:"safety_margin"`
	SafetyMarginRatio Optional `json:"safety_margin_ratio"`
	OperatingLeverage Optional `json:"operating_leverage"`
}

// HasLoss reports whether operating profit is negative.
func (c Calculated) HasLoss() bool { return c.OperatingProfit < 0 }

// CanBreakEven reports whether a finite break-even point exists.
func (c Calculated) CanBreakEven() bool { return c.BreakEvenPoint.Valid() }

// Calculate derives all CVP metrics from in. It never panics and never
// produces NaN for finite input; metrics that do not exist for in are
// absent [Optional] values.
func Calculate(in Input) Calculated {
	sales := in.Sales

	cm := sales - in.VariableCosts
	profit := cm - in.FixedCosts
	cmRatio := ratioOf(cm, sales)

	bep := breakEvenPoint(in.FixedCosts, cmRatio)
	safety := bep.Map(func(b float64) float64 { return sales - b })

	return Calculated{
		ContributionMargin:      cm,
		ContributionMarginRatio: cmRatio,
		OperatingProfit:         profit,
		OperatingProfitRatio:    ratioOf(profit, sales),
		TotalCosts:              in.TotalCosts(),
		VariableCostRatio:       ratioOf(in.VariableCosts, sales),
		FixedCostRatio:          ratioOf(in.FixedCosts, sales),

		BreakEvenPoint:    bep,
		BreakEvenRatio:    bep.Map(func(b float64) float64 { return ratioOf(b, sales) }),
		SafetyMargin:      safety,
		SafetyMarginRatio: safety.Map(func(s float64) float64 { return ratioOf(s, sales) }),
		OperatingLeverage: divide(cm, profit),
	}
}

// breakEvenPoint returns the sales level at which operating profit is zero.
// A zero or negative fixed-cost base breaks even immediately; that branch
// only applies when the margin ratio is positive.
func breakEvenPoint(fixedCosts, cmRatio float64) Optional {
	if cmRatio <= Epsilon {
		return None()
	}
	if fixedCosts <= 0 {
		return Some(0)
	}
	return Some(fixedCosts / cmRatio)
}

// RequiredSalesForTargetProfit returns the sales needed to earn
// targetProfit, or an absent value when cmRatio is not positive.
func RequiredSalesForTargetProfit(targetProfit, fixedCosts, cmRatio float64) Optional {
	if cmRatio <= Epsilon {
		return None()
	}
	return Some((fixedCosts + targetProfit) / cmRatio)
}

// ProfitAtSales returns the operating profit at the given sales level for a
// fixed variable-cost ratio and fixed-cost base.
func ProfitAtSales(sales, variableCostRatio, fixedCosts float64) float64 {
	return sales*(1-variableCostRatio) - fixedCosts
}

// ratioOf divides by sales, returning 0 when sales is (near) zero.
func ratioOf(v, sales float64) float64 {
	if math.Abs(sales) <= Epsilon {
		return 0
	}
	r := v / sales
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// divide returns num/den, absent when den is (near) zero.
func divide(num, den float64) Optional {
	if math.Abs(den) <= Epsilon {
		return None()
	}
	return Some(num / den)
}
