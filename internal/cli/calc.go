package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
)

// calcOutput is the --json shape of the calc command.
type calcOutput struct {
	Input         cvp.Input      `json:"input"`
	Metrics       cvp.Calculated `json:"metrics"`
	Warnings      []cvp.Warning  `json:"warnings"`
	TargetProfit  *float64       `json:"target_profit,omitempty"`
	RequiredSales *cvp.Optional  `json:"required_sales,omitempty"`
}

// calcCommand creates the calc command for printing CVP metrics.
func (c *CLI) calcCommand() *cobra.Command {
	var (
		flags  chartFlags
		target float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute cost-volume-profit metrics",
		Long: `Compute cost-volume-profit metrics for one period.

Prints contribution margin, operating profit, break-even point, safety margin
and operating leverage together with business warnings. Metrics that do not
exist for the input (for example a break-even point without a positive
contribution margin) are shown as n/a, or null with --json.

With --target-profit the sales needed to reach that profit are printed too.`,
		Example: `  cvpchart calc --sales 1000000 --variable 600000 --fixed 300000
  cvpchart calc -s fy2024.toml --locale ja
  cvpchart calc -s fy2024.toml --target-profit 200000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("target-profit") {
				spec.TargetProfit = &target
			}
			if asJSON {
				return c.runCalcJSON(cmd.Context(), cmd.OutOrStdout(), spec)
			}
			return c.runCalc(cmd.Context(), cmd.OutOrStdout(), spec)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().Float64Var(&target, "target-profit", 0, "operating profit to solve the required sales for")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) calculate(ctx context.Context, spec chartSpec) (calcOutput, error) {
	calc, warnings, err := c.newRunner(true).Calculate(ctx, spec.Input)
	if err != nil {
		return calcOutput{}, err
	}
	out := calcOutput{
		Input:        spec.Input,
		Metrics:      calc,
		Warnings:     warnings,
		TargetProfit: spec.TargetProfit,
	}
	if out.Warnings == nil {
		out.Warnings = []cvp.Warning{}
	}
	if spec.TargetProfit != nil {
		req := cvp.RequiredSalesForTargetProfit(*spec.TargetProfit, spec.Input.FixedCosts, calc.ContributionMarginRatio)
		out.RequiredSales = &req
	}
	return out, nil
}

func (c *CLI) runCalcJSON(ctx context.Context, w io.Writer, spec chartSpec) error {
	out, err := c.calculate(ctx, spec)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (c *CLI) runCalc(ctx context.Context, w io.Writer, spec chartSpec) error {
	out, err := c.calculate(ctx, spec)
	if err != nil {
		return err
	}

	lc := spec.Display.Locale
	title := "CVP metrics"
	if spec.Input.Label != "" {
		title += " · " + spec.Input.Label
	}
	printMetrics(w, title, metricLines(lc, spec.Input, out.Metrics))

	if out.RequiredSales != nil {
		fmt.Fprintln(w)
		printMetrics(w, "", []metricRow{
			{label: "Target profit", value: locale.FormatValue(lc, *out.TargetProfit), tone: signTone(*out.TargetProfit)},
			{label: "Required sales", value: formatOptional(lc, *out.RequiredSales), tone: toneTarget},
		})
	}

	if len(out.Warnings) > 0 {
		fmt.Fprintln(w)
		printWarnings(w, out.Warnings)
	}
	return nil
}

// metricLines returns the rows of the metrics report in the order a reader
// scans a CVP statement. Margin and profit rows are toned by their sign.
func metricLines(lc locale.Locale, in cvp.Input, m cvp.Calculated) []metricRow {
	lb := locale.LabelsFor(lc)
	money := func(v float64) string { return locale.FormatValue(lc, v) }

	profitLabel := lb.OperatingProfit
	if m.HasLoss() {
		profitLabel = lb.OperatingLoss
	}

	safety := toneNeutral
	if v, ok := m.SafetyMargin.Get(); ok {
		safety = signTone(v)
	}

	return []metricRow{
		{label: lb.Sales, value: money(in.Sales)},
		{label: lb.VariableCosts, value: money(in.VariableCosts)},
		{label: lb.ContributionMargin, value: money(m.ContributionMargin), tone: signTone(m.ContributionMargin)},
		{label: lb.MarginRatio, value: locale.FormatRatio(lc, m.ContributionMarginRatio)},
		{label: lb.FixedCosts, value: money(in.FixedCosts)},
		{label: profitLabel, value: money(m.OperatingProfit), tone: signTone(m.OperatingProfit)},
		{label: lb.BreakEvenPoint, value: formatOptional(lc, m.BreakEvenPoint)},
		{label: lb.BreakEvenRatio, value: formatOptionalRatio(lc, m.BreakEvenRatio)},
		{label: lb.SafetyMargin, value: formatOptional(lc, m.SafetyMargin), tone: safety},
		{label: lb.SafetyMarginRatio, value: formatOptionalRatio(lc, m.SafetyMarginRatio)},
		{label: lb.OperatingLeverage, value: formatOptionalNumber(lc, m.OperatingLeverage)},
	}
}

func formatOptional(lc locale.Locale, o cvp.Optional) string {
	if v, ok := o.Get(); ok {
		return locale.FormatValue(lc, v)
	}
	return locale.LabelsFor(lc).NotApplicable
}

func formatOptionalRatio(lc locale.Locale, o cvp.Optional) string {
	if v, ok := o.Get(); ok {
		return locale.FormatRatio(lc, v)
	}
	return locale.LabelsFor(lc).NotApplicable
}

func formatOptionalNumber(lc locale.Locale, o cvp.Optional) string {
	if v, ok := o.Get(); ok {
		return locale.FormatNumber(lc, v, 2)
	}
	return locale.LabelsFor(lc).NotApplicable
}
