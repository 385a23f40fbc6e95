package engine

import (
	"testing"

	"github.com/chrisdamba/promolift/internal/models"
)

// referenceHistorical is the 100→80 promotion over a 55 cost stack (margins
// 45/25, breakeven lift 0.8) observed for three weeks.
func referenceHistorical() models.HistoricalInput {
	return models.HistoricalInput{
		ProductName:   "sparkling water 6-pack",
		StandardPrice: 100,
		PromoPrice:    80,
		COGS:          50,
		LogisticsCost: 5,
		Weeks: []models.WeeklyObservation{
			{Week: 1, BaselineUnits: 100, ActualUnits: 150},
			{Week: 2, BaselineUnits: 100, ActualUnits: 140},
			{Week: 3, BaselineUnits: 100, ActualUnits: 120},
		},
	}
}

func TestGradeWeek_AgainstBreakevenTarget(t *testing.T) {
	be := SolveBreakeven(45, 25) // lift 0.8

	grade := GradeWeek(models.WeeklyObservation{Week: 1, BaselineUnits: 100, ActualUnits: 150}, 45, 25, be)

	// (150-100)/100 = 0.5 lift, 0.5/0.8 = 62.5% of target
	nearlyEqual(t, "actualLift", grade.ActualLift, 0.5)
	nearlyEqual(t, "liftGap", grade.LiftGap, -0.3)
	nearlyEqual(t, "baselineProfit", grade.BaselineProfit, 4500)
	nearlyEqual(t, "actualProfit", grade.ActualProfit, 3750)
	nearlyEqual(t, "profitDelta", grade.ProfitDelta, -750)
	nearlyEqual(t, "score", grade.Score, 62.5)
	if grade.Passed {
		t.Error("0.5 lift must not pass a 0.8 breakeven")
	}
}

func TestGradeWeek_ZeroBaselinePolicy(t *testing.T) {
	be := SolveBreakeven(45, 25)

	grade := GradeWeek(models.WeeklyObservation{Week: 4, BaselineUnits: 0, ActualUnits: 80}, 45, 25, be)

	// a zero-baseline week cannot express a relative lift: zero by policy
	nearlyEqual(t, "actualLift", grade.ActualLift, 0)
	nearlyEqual(t, "score", grade.Score, 0)
	nearlyEqual(t, "baselineProfit", grade.BaselineProfit, 0)
	nearlyEqual(t, "actualProfit", grade.ActualProfit, 2000)
	if grade.Passed {
		t.Error("zero lift must not pass a positive breakeven")
	}
}

func TestGradeWeek_TriviallyMetTarget(t *testing.T) {
	// promo margin above standard margin: breakeven lift -0.2, any
	// non-negative performance already clears it
	be := SolveBreakeven(20, 25)

	flat := GradeWeek(models.WeeklyObservation{Week: 1, BaselineUnits: 100, ActualUnits: 100}, 20, 25, be)
	nearlyEqual(t, "flat score", flat.Score, 100)
	if !flat.Passed {
		t.Error("zero lift must pass a negative breakeven")
	}

	// a mild decline still beats the -0.2 requirement but scores 0: the
	// score rewards non-negative performance only
	decline := GradeWeek(models.WeeklyObservation{Week: 2, BaselineUnits: 100, ActualUnits: 95}, 20, 25, be)
	nearlyEqual(t, "decline score", decline.Score, 0)
	if !decline.Passed {
		t.Error("-0.05 lift must pass a -0.2 breakeven")
	}
}

func TestGradeWeek_UndefinedBreakeven(t *testing.T) {
	be := SolveBreakeven(15, -5)

	grade := GradeWeek(models.WeeklyObservation{Week: 1, BaselineUnits: 100, ActualUnits: 600}, 15, -5, be)

	// no finite lift can recover a negative promo margin
	nearlyEqual(t, "score", grade.Score, 0)
	if grade.Passed {
		t.Error("no lift passes an undefined breakeven")
	}
	nearlyEqual(t, "liftGap", grade.LiftGap, 0)
}

func TestGradeScore_Clamp(t *testing.T) {
	be := SolveBreakeven(45, 25) // lift 0.8

	nearlyEqual(t, "overachievement clamps", GradeScore(2.0, be), 100)
	nearlyEqual(t, "decline clamps", GradeScore(-0.5, be), 0)
	nearlyEqual(t, "midpoint scales", GradeScore(0.4, be), 50)
}

func TestAnalyzeHistorical_ReferenceCase(t *testing.T) {
	res := AnalyzeHistorical(referenceHistorical())

	nearlyEqual(t, "standardMargin", res.StandardMargin, 45)
	nearlyEqual(t, "promoMargin", res.PromoMargin, 25)
	nearlyEqual(t, "breakevenLift", res.Breakeven.Lift, 0.8)

	wantScores := []float64{62.5, 50, 25}
	if len(res.Weeks) != len(wantScores) {
		t.Fatalf("got %d graded weeks, want %d", len(res.Weeks), len(wantScores))
	}
	for i, want := range wantScores {
		nearlyEqual(t, "weekly score", res.Weeks[i].Score, want)
		if res.Weeks[i].Passed {
			t.Errorf("week %d passed against a 0.8 breakeven", res.Weeks[i].Week)
		}
	}

	// 300 baseline vs 410 actual units: (410-300)/300 = 0.3667 overall
	// lift, 45.83% of the 0.8 target
	nearlyEqual(t, "totalBaselineUnits", res.TotalBaselineUnits, 300)
	nearlyEqual(t, "totalActualUnits", res.TotalActualUnits, 410)
	nearlyEqual(t, "overallLift", res.OverallLift, 110.0/300.0)
	nearlyEqual(t, "overallScore", res.OverallScore, 110.0/300.0/0.8*100)
	if res.OverallPassed {
		t.Error("36.7% aggregate lift must not pass an 80% breakeven")
	}

	// profits: baseline 300 × 45 = 13500, actual 410 × 25 = 10250
	nearlyEqual(t, "totalBaselineProfit", res.TotalBaselineProfit, 13500)
	nearlyEqual(t, "totalActualProfit", res.TotalActualProfit, 10250)
	nearlyEqual(t, "overallProfitDelta", res.OverallProfitDelta, -3250)
}

func TestAnalyzeHistorical_AggregateConsistency(t *testing.T) {
	res := AnalyzeHistorical(referenceHistorical())

	var units, actual, baseProfit, actProfit float64
	for _, w := range res.Weeks {
		units += w.BaselineUnits
		actual += w.ActualUnits
		baseProfit += w.BaselineProfit
		actProfit += w.ActualProfit
	}

	nearlyEqual(t, "baseline units", units, res.TotalBaselineUnits)
	nearlyEqual(t, "actual units", actual, res.TotalActualUnits)
	nearlyEqual(t, "baseline profit", baseProfit, res.TotalBaselineProfit)
	nearlyEqual(t, "actual profit", actProfit, res.TotalActualProfit)
}

func TestAnalyzeHistorical_AggregateNotAverageOfWeeks(t *testing.T) {
	// one huge week does not rescue the aggregate: 60+310+80 actual against
	// 300 baseline is a 0.5 lift, scored once at the portfolio level
	input := referenceHistorical()
	input.Weeks = []models.WeeklyObservation{
		{Week: 1, BaselineUnits: 100, ActualUnits: 60},
		{Week: 2, BaselineUnits: 100, ActualUnits: 310},
		{Week: 3, BaselineUnits: 100, ActualUnits: 80},
	}

	res := AnalyzeHistorical(input)

	// week 2 alone clears the 0.8 target
	if res.Weeks[0].Passed || res.Weeks[2].Passed {
		t.Error("declining weeks must fail")
	}
	if !res.Weeks[1].Passed {
		t.Error("the 2.1 lift week must pass")
	}
	nearlyEqual(t, "overallLift", res.OverallLift, 0.5)
	nearlyEqual(t, "overallScore", res.OverallScore, 62.5)
	if res.OverallPassed {
		t.Error("a 0.5 aggregate lift must not pass the 0.8 target")
	}
}

func TestAnalyzeHistorical_UndefinedBreakeven(t *testing.T) {
	input := referenceHistorical()
	input.PromoPrice = 50 // promo margin -5

	res := AnalyzeHistorical(input)

	if res.Breakeven.Defined {
		t.Fatal("breakeven should be undefined")
	}
	for _, w := range res.Weeks {
		nearlyEqual(t, "weekly score", w.Score, 0)
		if w.Passed {
			t.Errorf("week %d passed an undefined breakeven", w.Week)
		}
	}
	nearlyEqual(t, "overallScore", res.OverallScore, 0)
	if res.OverallPassed {
		t.Error("nothing passes an undefined breakeven")
	}
}

func TestAnalyzeHistorical_NoWeeks(t *testing.T) {
	input := referenceHistorical()
	input.Weeks = nil

	res := AnalyzeHistorical(input)

	if len(res.Weeks) != 0 {
		t.Fatalf("got %d graded weeks, want 0", len(res.Weeks))
	}
	nearlyEqual(t, "overallLift", res.OverallLift, 0)
	nearlyEqual(t, "overallScore", res.OverallScore, 0)
	if res.OverallPassed {
		t.Error("an empty history must not pass")
	}
}
