package sink

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// Sheet names written by [RenderXLSX].
const (
	SheetMetrics = "Metrics"
	SheetBlocks  = "Blocks"
	SheetItems   = "Breakdown"
)

// XLSXOption configures spreadsheet rendering.
type XLSXOption func(*xlsxRenderer)

type xlsxRenderer struct {
	locale locale.Locale
}

// WithXLSXLocale sets the language of labels in the workbook.
func WithXLSXLocale(l locale.Locale) XLSXOption { return func(r *xlsxRenderer) { r.locale = l } }

// RenderXLSX writes a workbook with the input and metrics, the block
// geometry and, when present, the cost breakdowns. Numbers are stored as
// numbers; absent metrics are empty cells.
func RenderXLSX(in cvp.Input, c cvp.Calculated, l treemap.Layout, opts ...XLSXOption) ([]byte, error) {
	r := xlsxRenderer{locale: locale.Default}
	for _, opt := range opts {
		opt(&r)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMetrics); err != nil {
		return nil, xlsxError(err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return nil, xlsxError(err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, xlsxError(err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return nil, xlsxError(err)
	}

	if err := writeMetricsSheet(f, r.locale, in, c, header, money, percent); err != nil {
		return nil, xlsxError(err)
	}
	if err := writeBlocksSheet(f, l, header); err != nil {
		return nil, xlsxError(err)
	}
	if len(in.VariableBreakdown)+len(in.FixedBreakdown) > 0 {
		if err := writeBreakdownSheet(f, r.locale, in, header, money); err != nil {
			return nil, xlsxError(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, xlsxError(err)
	}
	return buf.Bytes(), nil
}

func xlsxError(err error) error {
	return errors.Wrap(errors.ErrCodeRender, err, "render xlsx")
}

type xlsxMetric struct {
	label string
	value cvp.Optional
	style int
}

func writeMetricsSheet(f *excelize.File, lc locale.Locale, in cvp.Input, c cvp.Calculated, header, money, percent int) error {
	lb := locale.LabelsFor(lc)
	if err := f.SetSheetRow(SheetMetrics, "A1", &[]any{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetMetrics, "A1", "B1", header); err != nil {
		return err
	}

	profitLabel := lb.OperatingProfit
	if c.HasLoss() {
		profitLabel = lb.OperatingLoss
	}
	rows := []xlsxMetric{
		{lb.Sales, cvp.Some(in.Sales), money},
		{lb.VariableCosts, cvp.Some(in.VariableCosts), money},
		{lb.FixedCosts, cvp.Some(in.FixedCosts), money},
		{lb.ContributionMargin, cvp.Some(c.ContributionMargin), money},
		{lb.MarginRatio, cvp.Some(c.ContributionMarginRatio), percent},
		{profitLabel, cvp.Some(c.OperatingProfit), money},
		{lb.BreakEvenPoint, c.BreakEvenPoint, money},
		{lb.BreakEvenRatio, c.BreakEvenRatio, percent},
		{lb.SafetyMargin, c.SafetyMargin, money},
		{lb.SafetyMarginRatio, c.SafetyMarginRatio, percent},
		{lb.OperatingLeverage, c.OperatingLeverage, 0},
	}

	for i, m := range rows {
		row := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(SheetMetrics, labelCell, m.label); err != nil {
			return err
		}
		if v, ok := m.value.Get(); ok {
			if err := f.SetCellFloat(SheetMetrics, valueCell, v, -1, 64); err != nil {
				return err
			}
		}
		if m.style != 0 {
			if err := f.SetCellStyle(SheetMetrics, valueCell, valueCell, m.style); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(SheetMetrics, "A", "A", 28)
}

func writeBlocksSheet(f *excelize.File, l treemap.Layout, header int) error {
	if _, err := f.NewSheet(SheetBlocks); err != nil {
		return err
	}
	cols := []any{"Type", "Label", "X", "Y", "Width", "Height", "Value", "Percentage", "Color", "Extends below", "Detached", "Clipped", "Overlaps"}
	if err := f.SetSheetRow(SheetBlocks, "A1", &cols); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetBlocks, "A1", "M1", header); err != nil {
		return err
	}

	for i, b := range l.Blocks {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			string(b.Type), b.Label, b.X, b.Y, b.Width, b.Height, b.Value, b.Percentage,
			b.Color, b.Meta.ExtendsBelow, b.Meta.Detached, b.Meta.Clipped, b.Meta.Overlaps,
		}
		if err := f.SetSheetRow(SheetBlocks, cell, &row); err != nil {
			return err
		}

		swatch, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(b.Color, "#")}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		colorCell, _ := excelize.CoordinatesToCellName(9, i+2)
		if err := f.SetCellStyle(SheetBlocks, colorCell, colorCell, swatch); err != nil {
			return err
		}
	}

	metaRow := len(l.Blocks) + 3
	cell, _ := excelize.CoordinatesToCellName(1, metaRow)
	return f.SetSheetRow(SheetBlocks, cell, &[]any{"Height extension", l.Meta.HeightExtension})
}

func writeBreakdownSheet(f *excelize.File, lc locale.Locale, in cvp.Input, header, money int) error {
	lb := locale.LabelsFor(lc)
	if _, err := f.NewSheet(SheetItems); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetItems, "A1", &[]any{"Category", "Item", "Amount"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetItems, "A1", "C1", header); err != nil {
		return err
	}

	row := 2
	write := func(category string, items []cvp.LineItem) error {
		for _, it := range items {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetItems, cell, &[]any{category, it.Name, it.Amount}); err != nil {
				return err
			}
			amount, _ := excelize.CoordinatesToCellName(3, row)
			if err := f.SetCellStyle(SheetItems, amount, amount, money); err != nil {
				return err
			}
			row++
		}
		return nil
	}
	if err := write(lb.VariableCosts, in.VariableBreakdown); err != nil {
		return err
	}
	return write(lb.FixedCosts, in.FixedBreakdown)
}
