package engine

// Breakeven is the solved breakeven requirement of a promotion. Lift is the
// fractional volume increase at which promotional profit matches baseline
// profit; it may be negative (the promotion out-earns the standard price per
// unit, so even shrinking volume still breaks even) and a lift of exactly
// zero is a solved answer, not a missing one.
//
// When the promotional margin is zero or negative no volume of sales can
// recover the discount: Defined is false and Lift carries no meaning. Every
// consumer must branch on Defined; nothing in this package encodes the
// unsolvable case as a numeric value.
type Breakeven struct {
	Defined bool
	Lift    float64
}

// SolveBreakeven equates total promotional profit, baselineUnits × (1+lift) ×
// promoMargin, with total baseline profit, baselineUnits × standardMargin,
// and solves for lift. This is the single load-bearing equation of the
// system; every grade downstream restates how an observed lift compares to
// this one.
func SolveBreakeven(standardMargin, promoMargin float64) Breakeven {
	if promoMargin <= 0 {
		return Breakeven{}
	}
	return Breakeven{
		Defined: true,
		Lift:    standardMargin/promoMargin - 1,
	}
}

// Units scales the solved lift to the unit volume required against a
// baseline. Meaningful only when the breakeven is defined.
func (b Breakeven) Units(baselineUnits float64) float64 {
	return baselineUnits * (1 + b.Lift)
}
