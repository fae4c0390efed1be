package cvp

import (
	"fmt"
	"math"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

// WarningCode identifies a business-rule warning.
type WarningCode string

// Warning codes reported by [Validate].
const (
	WarnNegativeContribution WarningCode = "NEGATIVE_CONTRIBUTION"
	WarnOperatingLoss        WarningCode = "OPERATING_LOSS"
	WarnLowSafetyMargin      WarningCode = "LOW_SAFETY_MARGIN"
	WarnNoFixedCosts         WarningCode = "NO_FIXED_COSTS"
	WarnBreakdownMismatch    WarningCode = "BREAKDOWN_MISMATCH"
)

// LowSafetyMarginRatio is the safety-margin ratio below which a profitable
// input is flagged as close to break-even.
const LowSafetyMarginRatio = 0.10

// Warning is a non-fatal observation about an input.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Validate checks that in is usable for charting and reports business
// warnings about it. The returned error carries [errors.ErrCodeInvalidInput]
// and is reported for non-finite figures, non-positive sales and negative
// costs; warnings are only computed for valid input.
func Validate(in Input) ([]Warning, error) {
	if err := errors.ValidatePositive("sales", in.Sales); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("variable costs", in.VariableCosts); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("fixed costs", in.FixedCosts); err != nil {
		return nil, err
	}
	for _, item := range append(append([]LineItem{}, in.VariableBreakdown...), in.FixedBreakdown...) {
		if err := errors.ValidateFinite(fmt.Sprintf("breakdown item %q", item.Name), item.Amount); err != nil {
			return nil, err
		}
	}

	calc := Calculate(in)
	var warnings []Warning

	if calc.ContributionMargin <= 0 {
		warnings = append(warnings, Warning{
			Code:    WarnNegativeContribution,
			Message: "variable costs consume all of sales; the business cannot break even",
		})
	}
	if calc.HasLoss() {
		warnings = append(warnings, Warning{
			Code:    WarnOperatingLoss,
			Message: fmt.Sprintf("operating loss of %.2f", -calc.OperatingProfit),
		})
	}
	if r, ok := calc.SafetyMarginRatio.Get(); ok && r >= 0 && r < LowSafetyMarginRatio {
		warnings = append(warnings, Warning{
			Code:    WarnLowSafetyMargin,
			Message: fmt.Sprintf("sales are only %.1f%% above the break-even point", r*100),
		})
	}
	if in.FixedCosts == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnNoFixedCosts,
			Message: "fixed costs are zero; the break-even point is zero",
		})
	}
	if w, ok := checkBreakdown("variable", in.VariableBreakdown, in.VariableCosts); ok {
		warnings = append(warnings, w)
	}
	if w, ok := checkBreakdown("fixed", in.FixedBreakdown, in.FixedCosts); ok {
		warnings = append(warnings, w)
	}

	return warnings, nil
}

func checkBreakdown(kind string, items []LineItem, total float64) (Warning, bool) {
	if len(items) == 0 {
		return Warning{}, false
	}
	sum := SumItems(items)
	tolerance := 1e-6 * math.Max(1, math.Abs(total))
	if math.Abs(sum-total) <= tolerance {
		return Warning{}, false
	}
	return Warning{
		Code:    WarnBreakdownMismatch,
		Message: fmt.Sprintf("%s cost breakdown sums to %.2f but the total is %.2f", kind, sum, total),
	}, true
}
