package analyzer

import (
	"bytes"
	"testing"

	"github.com/chrisdamba/promolift/internal/engine"
	"github.com/chrisdamba/promolift/internal/ingest"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderPromotion_SolvableBreakeven(t *testing.T) {
	result := engine.AnalyzePromotion(solvableInput())

	var buf bytes.Buffer
	RenderPromotion(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Promotion analysis: oat milk 1l")
	assert.Contains(t, out, "Terms: bogo")
	assert.Contains(t, out, "$4.50")
	assert.Contains(t, out, "44.4%")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "180 units vs 100 baseline")
	assert.Contains(t, out, models.StatusProfitable)
	assert.Contains(t, out, models.StatusBelowBaseline)
	assert.NotContains(t, out, "N/A")
}

func TestRenderPromotion_UnsolvableBreakeven(t *testing.T) {
	result := engine.AnalyzePromotion(unsolvableInput())

	var buf bytes.Buffer
	RenderPromotion(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "no volume recovers the lost margin")
}

func TestRenderHistorical(t *testing.T) {
	input := models.HistoricalInput{
		ProductName:        "oat milk 1l",
		StandardPrice:      10,
		PromoPrice:         8,
		COGS:               4,
		LogisticsCost:      1,
		OtherVariableCosts: 0.5,
		Weeks: []models.WeeklyObservation{
			{Week: 1, BaselineUnits: 100, ActualUnits: 190},
			{Week: 2, BaselineUnits: 100, ActualUnits: 170},
		},
	}

	var buf bytes.Buffer
	RenderHistorical(&buf, engine.AnalyzeHistorical(input))
	out := buf.String()

	assert.Contains(t, out, "Historical grading: oat milk 1l")
	assert.Contains(t, out, "Week")
	assert.Contains(t, out, models.GradeFail) // week 2 missed the target
	assert.Contains(t, out, "Verdict: PASS")
}

func TestRenderBatchReport(t *testing.T) {
	report := &BatchReport{
		RunID:      "run-1",
		SourceFile: "promos.csv",
		Analyzed:   2,
		Failed:     1,
		Outcomes: []PromotionOutcome{
			{Line: 2, Product: "oat milk 1l"},
			{Line: 3, Product: "granola 500g"},
			{Line: 4, Product: "broken bar", Err: &ingest.RowError{
				Line: 4, Product: "broken bar", Message: "promo price must be below standard price",
			}},
		},
	}

	var buf bytes.Buffer
	RenderBatchReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "Processed 3 rows from promos.csv: 2 analyzed, 1 failed")
	assert.Contains(t, out, "skipped line 4 (broken bar)")
}

func TestRenderGradeReport(t *testing.T) {
	input := models.HistoricalInput{
		ProductName:   "oat milk 1l",
		StandardPrice: 10,
		PromoPrice:    8,
		COGS:          4,
		Weeks: []models.WeeklyObservation{
			{Week: 1, BaselineUnits: 100, ActualUnits: 180},
		},
	}
	report := &GradeReport{
		RunID:      "run-2",
		SourceFile: "history.csv",
		Results:    []engine.HistoricalResult{engine.AnalyzeHistorical(input)},
		RowErrors: []*ingest.RowError{
			{Line: 3, Product: "bad row", Message: "week must be a positive integer"},
		},
	}

	var buf bytes.Buffer
	RenderGradeReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "Graded 1 products from history.csv (1 rows rejected)")
	assert.Contains(t, out, "skipped line 3 (bad row)")
	assert.Contains(t, out, "oat milk 1l")
	assert.Contains(t, out, models.GradePass)
}
