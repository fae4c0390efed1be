package sink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRenderXLSX(t *testing.T) {
	in, calc, l := testLayout(100, 40, 30, treemap.LossNegativeBar)
	data, err := RenderXLSX(in, calc, l)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{SheetMetrics, SheetBlocks}, f.GetSheetList())

	rows, err := f.GetRows(SheetMetrics)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 8)
	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, "Sales", rows[1][0])

	bep, err := f.GetCellValue(SheetMetrics, "B8", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "50", bep)

	blocks, err := f.GetRows(SheetBlocks)
	require.NoError(t, err)
	assert.Equal(t, "Type", blocks[0][0])
	assert.Equal(t, "sales", blocks[1][0])
	assert.Equal(t, "Overlaps", blocks[0][12])
	assert.Equal(t, "profit", blocks[len(l.Blocks)][0])
}

func TestRenderXLSXAbsentMetricsAreEmpty(t *testing.T) {
	in, calc, l := testLayout(100, 120, 30, treemap.LossNegativeBar)
	data, err := RenderXLSX(in, calc, l)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	bep, err := f.GetCellValue(SheetMetrics, "B8")
	require.NoError(t, err)
	assert.Empty(t, bep)
}

func TestRenderXLSXBreakdown(t *testing.T) {
	in := cvp.Input{
		Sales: 100, VariableCosts: 40, FixedCosts: 30,
		VariableBreakdown: []cvp.LineItem{{Name: "materials", Amount: 40}},
		FixedBreakdown:    []cvp.LineItem{{Name: "rent", Amount: 20}, {Name: "salaries", Amount: 10}},
	}
	calc := cvp.Calculate(in)
	l := treemap.Generate(in, calc, treemap.Options{Locale: locale.Japanese})

	data, err := RenderXLSX(in, calc, l, WithXLSXLocale(locale.Japanese))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Contains(t, f.GetSheetList(), SheetItems)

	rows, err := f.GetRows(SheetItems)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "変動費", rows[1][0])
	assert.Equal(t, "rent", rows[2][1])

	label, err := f.GetCellValue(SheetMetrics, "A2")
	require.NoError(t, err)
	assert.Equal(t, "売上高", label)
}
