// Package engine implements the promotion profitability calculations:
// per-unit margins, the breakeven lift a discount must generate, what-if
// scenario projections and retrospective weekly grading. Every function is a
// deterministic pure function of its arguments. The engine performs no
// validation and no I/O; callers hand it fully resolved records and branch on
// the typed results.
package engine

// Margin returns the per-unit profit of a selling price over its variable
// cost stack. Negative results are legal and carry meaning downstream: a
// negative promotional margin is what makes a breakeven unsolvable.
func Margin(price, cogs, logistics, other float64) float64 {
	return price - (cogs + logistics + other)
}

// MarginErosion returns the fraction of per-unit margin given up by moving
// from the standard to the promotional price, e.g. 0.444 when a 45 margin
// drops to 25. A zero standard margin erodes nothing by definition.
func MarginErosion(standardMargin, promoMargin float64) float64 {
	if standardMargin == 0 {
		return 0
	}
	return (standardMargin - promoMargin) / standardMargin
}
