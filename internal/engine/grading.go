package engine

import "github.com/chrisdamba/promolift/internal/models"

// WeeklyGrade scores one observed period against the period-invariant
// breakeven target. LiftGap is the signed distance between the observed lift
// and the breakeven lift; it is only meaningful when Breakeven.Defined.
type WeeklyGrade struct {
	Week           int
	BaselineUnits  float64
	ActualUnits    float64
	ActualLift     float64
	Breakeven      Breakeven
	LiftGap        float64
	BaselineProfit float64
	ActualProfit   float64
	ProfitDelta    float64
	Score          float64
	Passed         bool
}

// HistoricalResult grades a promotion that already ran: one WeeklyGrade per
// observation in week order, plus cumulative totals and an overall grade
// computed from the aggregate lift.
type HistoricalResult struct {
	ProductName         string
	StandardMargin      float64
	PromoMargin         float64
	Breakeven           Breakeven
	Weeks               []WeeklyGrade
	TotalBaselineUnits  float64
	TotalActualUnits    float64
	TotalBaselineProfit float64
	TotalActualProfit   float64
	OverallLift         float64
	OverallProfitDelta  float64
	OverallScore        float64
	OverallPassed       bool
}

// GradeScore maps an observed lift to the percentage of the breakeven target
// it achieved, clamped to [0, 100]. A breakeven lift of zero or below is a
// trivially met target: any non-negative lift scores 100, a volume decline
// scores 0. Against an undefined breakeven no finite lift can succeed, so
// every observation scores 0.
func GradeScore(actualLift float64, breakeven Breakeven) float64 {
	if !breakeven.Defined {
		return 0
	}
	if breakeven.Lift <= 0 {
		if actualLift >= 0 {
			return 100
		}
		return 0
	}
	score := actualLift / breakeven.Lift * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// GradeWeek grades a single observation. A zero-baseline week cannot express
// a relative lift and counts as zero lift by policy rather than failing.
func GradeWeek(obs models.WeeklyObservation, standardMargin, promoMargin float64, breakeven Breakeven) WeeklyGrade {
	lift := 0.0
	if obs.BaselineUnits > 0 {
		lift = (obs.ActualUnits - obs.BaselineUnits) / obs.BaselineUnits
	}

	baselineProfit := obs.BaselineUnits * standardMargin
	actualProfit := obs.ActualUnits * promoMargin

	grade := WeeklyGrade{
		Week:           obs.Week,
		BaselineUnits:  obs.BaselineUnits,
		ActualUnits:    obs.ActualUnits,
		ActualLift:     lift,
		Breakeven:      breakeven,
		BaselineProfit: baselineProfit,
		ActualProfit:   actualProfit,
		ProfitDelta:    actualProfit - baselineProfit,
		Score:          GradeScore(lift, breakeven),
		Passed:         breakeven.Defined && lift >= breakeven.Lift,
	}
	if breakeven.Defined {
		grade.LiftGap = lift - breakeven.Lift
	}
	return grade
}

// AnalyzeHistorical grades every week of a finished promotion and folds the
// grades into cumulative totals. The overall grade reapplies the weekly
// formula to the aggregate lift against the same breakeven target, so a
// multi-week shortfall cannot be masked by one strong week unless the summed
// volume actually clears the target.
func AnalyzeHistorical(input models.HistoricalInput) HistoricalResult {
	standardMargin := Margin(input.StandardPrice, input.COGS, input.LogisticsCost, input.OtherVariableCosts)
	promoMargin := Margin(input.PromoPrice, input.COGS, input.LogisticsCost, input.OtherVariableCosts) - input.PromoCostPerUnit
	breakeven := SolveBreakeven(standardMargin, promoMargin)

	result := HistoricalResult{
		ProductName:    input.ProductName,
		StandardMargin: standardMargin,
		PromoMargin:    promoMargin,
		Breakeven:      breakeven,
		Weeks:          make([]WeeklyGrade, 0, len(input.Weeks)),
	}

	for _, obs := range input.Weeks {
		grade := GradeWeek(obs, standardMargin, promoMargin, breakeven)
		result.Weeks = append(result.Weeks, grade)
		result.TotalBaselineUnits += grade.BaselineUnits
		result.TotalActualUnits += grade.ActualUnits
		result.TotalBaselineProfit += grade.BaselineProfit
		result.TotalActualProfit += grade.ActualProfit
	}

	if result.TotalBaselineUnits > 0 {
		result.OverallLift = (result.TotalActualUnits - result.TotalBaselineUnits) / result.TotalBaselineUnits
	}
	result.OverallProfitDelta = result.TotalActualProfit - result.TotalBaselineProfit
	result.OverallScore = GradeScore(result.OverallLift, breakeven)
	result.OverallPassed = breakeven.Defined && result.OverallLift >= breakeven.Lift

	return result
}
