package engine

import "github.com/chrisdamba/promolift/internal/models"

// PromotionResult is the complete analysis of one planned promotion. It
// echoes identity and prices so it can be consumed standalone, and carries
// BreakevenUnits alongside Breakeven: both are undefined exactly when
// Breakeven.Defined is false.
type PromotionResult struct {
	ProductName       string
	StandardPrice     float64
	PromoPrice        float64
	PromoTerms        string
	TotalVariableCost float64
	StandardMargin    float64
	PromoMargin       float64
	MarginErosion     float64
	Breakeven         Breakeven
	BreakevenUnits    float64
	BaselineUnits     float64
	BaselineProfit    float64
	Scenarios         []ScenarioOutcome
}

// AnalyzePromotion runs the full single-record pipeline: margins, erosion,
// breakeven, baseline profit and the what-if scenario sweep. The promotional
// margin additionally pays the promotion-only extra cost; the standard margin
// never does.
func AnalyzePromotion(input models.PromotionInput) PromotionResult {
	standardMargin := Margin(input.StandardPrice, input.COGS, input.LogisticsCost, input.OtherVariableCosts)
	promoMargin := Margin(input.PromoPrice, input.COGS, input.LogisticsCost, input.OtherVariableCosts) - input.PromoCostPerUnit
	baselineProfit := input.BaselineUnits * standardMargin
	breakeven := SolveBreakeven(standardMargin, promoMargin)

	result := PromotionResult{
		ProductName:       input.ProductName,
		StandardPrice:     input.StandardPrice,
		PromoPrice:        input.PromoPrice,
		PromoTerms:        input.PromoTerms,
		TotalVariableCost: input.COGS + input.LogisticsCost + input.OtherVariableCosts,
		StandardMargin:    standardMargin,
		PromoMargin:       promoMargin,
		MarginErosion:     MarginErosion(standardMargin, promoMargin),
		Breakeven:         breakeven,
		BaselineUnits:     input.BaselineUnits,
		BaselineProfit:    baselineProfit,
		Scenarios:         ProjectScenarios(promoMargin, input.BaselineUnits, baselineProfit),
	}
	if breakeven.Defined {
		result.BreakevenUnits = breakeven.Units(input.BaselineUnits)
	}
	return result
}
