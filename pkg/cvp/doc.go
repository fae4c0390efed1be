// Package cvp computes Cost-Volume-Profit metrics.
//
// # Overview
//
// CVP analysis relates three raw figures of a business period:
//
//   - Sales: revenue for the period
//   - Variable costs: costs that scale with sales volume
//   - Fixed costs: costs that do not
//
// [Calculate] derives every other figure from them: contribution margin,
// operating profit, the break-even point, the safety margin and the
// cost ratios. It is a pure function of its [Input]; nothing is cached and
// nothing is shared between calls.
//
// # Undefined Metrics
//
// Some metrics have no meaningful value for some inputs. A business whose
// variable costs consume all of its sales never breaks even, so its
// break-even point does not exist. Such metrics are [Optional] values that
// are not valid, never NaN and never a sentinel number:
//
//	calc := cvp.Calculate(cvp.Input{Sales: 100, VariableCosts: 120, FixedCosts: 10})
//	if _, ok := calc.BreakEvenPoint.Get(); !ok {
//	    // cannot break even
//	}
//
// Division by zero is guarded with [Epsilon] rather than exact comparison,
// so ratios over (near-)zero sales are 0.
//
// # Validation
//
// [Calculate] accepts any input and never fails. Callers that want to
// reject malformed input or surface business warnings run [Validate] first.
package cvp
