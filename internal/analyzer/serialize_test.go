package analyzer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chrisdamba/promolift/internal/engine"
	"github.com/chrisdamba/promolift/internal/ingest"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvableInput() models.PromotionInput {
	// margins 4.50 standard / 2.50 promo, breakeven lift 80%
	return models.PromotionInput{
		ProductName:        "oat milk 1l",
		StandardPrice:      10,
		PromoPrice:         8,
		COGS:               4,
		LogisticsCost:      1,
		OtherVariableCosts: 0.5,
		PromoTerms:         "bogo",
		BaselineUnits:      100,
	}
}

func unsolvableInput() models.PromotionInput {
	// the retailer fee pushes the promo margin below zero
	input := solvableInput()
	input.PromoCostPerUnit = 3
	return input
}

func TestPromotionEvents_TopicsAndSharedAnalysisID(t *testing.T) {
	result := engine.AnalyzePromotion(solvableInput())

	messages, err := PromotionEvents("run-1", result, time.Now())
	require.NoError(t, err)
	require.Len(t, messages, 1+len(engine.ScenarioLiftLevels))

	assert.Equal(t, TopicPromotionAnalysis, messages[0].Topic)
	for _, message := range messages[1:] {
		assert.Equal(t, TopicPromotionScenario, message.Topic)
	}

	var analysis PromotionAnalysisEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &analysis))
	assert.Equal(t, "run-1", analysis.RunID)
	assert.Equal(t, TopicPromotionAnalysis, analysis.EventType)
	assert.Equal(t, "oat milk 1l", analysis.ProductName)
	assert.NotEmpty(t, analysis.AnalysisID)

	for _, message := range messages[1:] {
		var scenario PromotionScenarioEvent
		require.NoError(t, json.Unmarshal(message.Message, &scenario))
		assert.Equal(t, analysis.AnalysisID, scenario.AnalysisID)
		assert.Equal(t, "run-1", scenario.RunID)
	}
}

func TestPromotionEvents_BreakevenFields(t *testing.T) {
	result := engine.AnalyzePromotion(solvableInput())

	messages, err := PromotionEvents("run-1", result, time.Now())
	require.NoError(t, err)

	var analysis PromotionAnalysisEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &analysis))
	require.NotNil(t, analysis.BreakevenLift)
	require.NotNil(t, analysis.BreakevenUnits)
	assert.InDelta(t, 0.8, *analysis.BreakevenLift, 1e-9)
	assert.InDelta(t, 180, *analysis.BreakevenUnits, 1e-9)
}

func TestPromotionEvents_UnsolvableBreakevenSerializesAsNull(t *testing.T) {
	result := engine.AnalyzePromotion(unsolvableInput())

	messages, err := PromotionEvents("run-1", result, time.Now())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(messages[0].Message, &raw))
	value, present := raw["breakevenLift"]
	assert.True(t, present, "breakevenLift key should be emitted explicitly")
	assert.Nil(t, value)
	assert.Nil(t, raw["breakevenUnits"])
}

func TestHistoricalEvents_SummaryThenWeeks(t *testing.T) {
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
	result := engine.AnalyzeHistorical(input)

	messages, err := HistoricalEvents("run-2", result, time.Now())
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, TopicHistoricalSummary, messages[0].Topic)
	assert.Equal(t, TopicWeeklyGrade, messages[1].Topic)
	assert.Equal(t, TopicWeeklyGrade, messages[2].Topic)

	var summary HistoricalSummaryEvent
	require.NoError(t, json.Unmarshal(messages[0].Message, &summary))
	assert.Equal(t, int32(2), summary.WeeksGraded)
	assert.Equal(t, int32(1), summary.WeeksPassed)
	assert.Equal(t, models.GradePass, summary.Grade)
	assert.True(t, summary.Passed)
	require.NotNil(t, summary.BreakevenLift)
	assert.InDelta(t, 0.8, *summary.BreakevenLift, 1e-9)

	var week1 WeeklyGradeEvent
	require.NoError(t, json.Unmarshal(messages[1].Message, &week1))
	assert.Equal(t, int32(1), week1.Week)
	assert.Equal(t, summary.AnalysisID, week1.AnalysisID)
	assert.Equal(t, models.GradePass, week1.Grade)
	require.NotNil(t, week1.LiftGap)
	assert.InDelta(t, 0.1, *week1.LiftGap, 1e-9)

	var week2 WeeklyGradeEvent
	require.NoError(t, json.Unmarshal(messages[2].Message, &week2))
	assert.Equal(t, models.GradeFail, week2.Grade)
	assert.False(t, week2.Passed)
}

func TestErrorEvent(t *testing.T) {
	rowErr := &ingest.RowError{Line: 7, Product: "shampoo", Message: "cogs cannot be negative, got -1"}

	message, err := ErrorEvent("run-3", "promos.csv", rowErr, time.Now())
	require.NoError(t, err)
	assert.Equal(t, TopicAnalysisError, message.Topic)

	var event AnalysisErrorEvent
	require.NoError(t, json.Unmarshal(message.Message, &event))
	assert.Equal(t, "promos.csv", event.SourceFile)
	assert.Equal(t, int32(7), event.Line)
	assert.Equal(t, "shampoo", event.ProductName)
	assert.Contains(t, event.Reason, "cogs cannot be negative")
}
