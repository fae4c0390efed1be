package sink

import (
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
)

type metricRow struct {
	label string
	value string
}

// metricRows lists the metrics shown in tabular sinks. Variable and fixed
// costs are recovered from the margins so only sales is needed.
func metricRows(lb locale.Labels, lc locale.Locale, sales float64, c cvp.Calculated) []metricRow {
	value := func(o cvp.Optional) string {
		if v, ok := o.Get(); ok {
			return locale.FormatValue(lc, v)
		}
		return lb.NotApplicable
	}
	ratio := func(o cvp.Optional) string {
		if v, ok := o.Get(); ok {
			return locale.FormatRatio(lc, v)
		}
		return lb.NotApplicable
	}
	profitLabel := lb.OperatingProfit
	if c.HasLoss() {
		profitLabel = lb.OperatingLoss
	}
	leverage := lb.NotApplicable
	if v, ok := c.OperatingLeverage.Get(); ok {
		leverage = locale.FormatNumber(lc, v, 2)
	}

	return []metricRow{
		{lb.Sales, locale.FormatValue(lc, sales)},
		{lb.VariableCosts, locale.FormatValue(lc, sales-c.ContributionMargin)},
		{lb.ContributionMargin, locale.FormatValue(lc, c.ContributionMargin)},
		{lb.MarginRatio, locale.FormatRatio(lc, c.ContributionMarginRatio)},
		{lb.FixedCosts, locale.FormatValue(lc, c.ContributionMargin-c.OperatingProfit)},
		{profitLabel, locale.FormatValue(lc, c.OperatingProfit)},
		{lb.BreakEvenPoint, value(c.BreakEvenPoint)},
		{lb.BreakEvenRatio, ratio(c.BreakEvenRatio)},
		{lb.SafetyMargin, value(c.SafetyMargin)},
		{lb.SafetyMarginRatio, ratio(c.SafetyMarginRatio)},
		{lb.OperatingLeverage, leverage},
	}
}
