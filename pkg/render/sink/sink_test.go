package sink

import (
	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

func testLayout(sales, variable, fixed float64, mode treemap.LossDisplayMode) (cvp.Input, cvp.Calculated, treemap.Layout) {
	in := cvp.Input{Sales: sales, VariableCosts: variable, FixedCosts: fixed}
	calc := cvp.Calculate(in)
	opts := treemap.DefaultOptions()
	opts.LossMode = mode
	return in, calc, treemap.Generate(in, calc, opts)
}
