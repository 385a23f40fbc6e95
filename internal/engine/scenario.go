package engine

// ScenarioLiftLevels is the fixed set of what-if lift levels evaluated for
// every promotion, in display order. Round numbers analysts recognize; no
// interpolation between them.
var ScenarioLiftLevels = []float64{0, 0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// ScenarioOutcome projects one hypothetical lift level: the units it implies,
// the total promotional profit at those units, and how that profit compares
// to staying at the standard price.
type ScenarioOutcome struct {
	Lift        float64
	Units       float64
	TotalProfit float64
	ProfitDelta float64
	Profitable  bool
}

// ProjectScenarios evaluates every level in ScenarioLiftLevels, preserving
// their order. A scenario counts as profitable when its projected profit
// meets or exceeds the baseline profit.
func ProjectScenarios(promoMargin, baselineUnits, baselineProfit float64) []ScenarioOutcome {
	outcomes := make([]ScenarioOutcome, 0, len(ScenarioLiftLevels))
	for _, lift := range ScenarioLiftLevels {
		units := baselineUnits * (1 + lift)
		profit := units * promoMargin
		outcomes = append(outcomes, ScenarioOutcome{
			Lift:        lift,
			Units:       units,
			TotalProfit: profit,
			ProfitDelta: profit - baselineProfit,
			Profitable:  profit >= baselineProfit,
		})
	}
	return outcomes
}
