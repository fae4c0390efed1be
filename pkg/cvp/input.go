package cvp

// Input holds the raw figures of one CVP calculation.
// Sales is expected to be positive and both cost figures non-negative;
// see [Validate].
type Input struct {
	Sales         float64 `json:"sales"`
	VariableCosts float64 `json:"variable_costs"`
	FixedCosts    float64 `json:"fixed_costs"`

	// Label and the breakdowns are descriptive only and never enter the
	// arithmetic.
	Label             string     `json:"label,omitempty"`
	VariableBreakdown []LineItem `json:"variable_breakdown,omitempty"`
	FixedBreakdown    []LineItem `json:"fixed_breakdown,omitempty"`
}

// LineItem is one named component of a cost total.
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TotalCosts returns variable plus fixed costs.
func (in Input) TotalCosts() float64 {
	return in.VariableCosts + in.FixedCosts
}

// SumItems adds up the amounts of a breakdown.
func SumItems(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}
