package analyzer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/promolift/internal/engine"
	"github.com/chrisdamba/promolift/internal/ingest"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/lucsky/cuid"
)

// PromotionEvents serializes one analysis result into its event messages:
// a single analysis event followed by one scenario event per lift level, all
// sharing the same analysis id.
func PromotionEvents(runID string, result engine.PromotionResult, now time.Time) ([]models.EventMessage, error) {
	analysisID := cuid.New()

	event := PromotionAnalysisEvent{
		BaseEvent:         NewBaseEvent(TopicPromotionAnalysis, runID, analysisID, result.ProductName, now),
		StandardPrice:     result.StandardPrice,
		PromoPrice:        result.PromoPrice,
		PromoTerms:        result.PromoTerms,
		TotalVariableCost: result.TotalVariableCost,
		StandardMargin:    result.StandardMargin,
		PromoMargin:       result.PromoMargin,
		MarginErosion:     result.MarginErosion,
		BaselineUnits:     result.BaselineUnits,
		BaselineProfit:    result.BaselineProfit,
	}
	if result.Breakeven.Defined {
		lift := result.Breakeven.Lift
		units := result.BreakevenUnits
		event.BreakevenLift = &lift
		event.BreakevenUnits = &units
	}

	messages := make([]models.EventMessage, 0, 1+len(result.Scenarios))
	message, err := marshalEvent(TopicPromotionAnalysis, event)
	if err != nil {
		return nil, err
	}
	messages = append(messages, message)

	for _, scenario := range result.Scenarios {
		scenarioEvent := PromotionScenarioEvent{
			BaseEvent:   NewBaseEvent(TopicPromotionScenario, runID, analysisID, result.ProductName, now),
			Lift:        scenario.Lift,
			Units:       scenario.Units,
			TotalProfit: scenario.TotalProfit,
			ProfitDelta: scenario.ProfitDelta,
			Profitable:  scenario.Profitable,
		}
		message, err := marshalEvent(TopicPromotionScenario, scenarioEvent)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// HistoricalEvents serializes one graded run into its event messages: a
// summary event followed by one grade event per week.
func HistoricalEvents(runID string, result engine.HistoricalResult, now time.Time) ([]models.EventMessage, error) {
	analysisID := cuid.New()

	var weeksPassed int32
	for _, week := range result.Weeks {
		if week.Passed {
			weeksPassed++
		}
	}

	summary := HistoricalSummaryEvent{
		BaseEvent:           NewBaseEvent(TopicHistoricalSummary, runID, analysisID, result.ProductName, now),
		StandardMargin:      result.StandardMargin,
		PromoMargin:         result.PromoMargin,
		WeeksGraded:         int32(len(result.Weeks)),
		WeeksPassed:         weeksPassed,
		TotalBaselineUnits:  result.TotalBaselineUnits,
		TotalActualUnits:    result.TotalActualUnits,
		TotalBaselineProfit: result.TotalBaselineProfit,
		TotalActualProfit:   result.TotalActualProfit,
		OverallLift:         result.OverallLift,
		OverallProfitDelta:  result.OverallProfitDelta,
		OverallScore:        result.OverallScore,
		Grade:               gradeLabel(result.OverallPassed),
		Passed:              result.OverallPassed,
	}
	if result.Breakeven.Defined {
		lift := result.Breakeven.Lift
		summary.BreakevenLift = &lift
	}

	messages := make([]models.EventMessage, 0, 1+len(result.Weeks))
	message, err := marshalEvent(TopicHistoricalSummary, summary)
	if err != nil {
		return nil, err
	}
	messages = append(messages, message)

	for _, week := range result.Weeks {
		grade := WeeklyGradeEvent{
			BaseEvent:      NewBaseEvent(TopicWeeklyGrade, runID, analysisID, result.ProductName, now),
			Week:           int32(week.Week),
			BaselineUnits:  week.BaselineUnits,
			ActualUnits:    week.ActualUnits,
			ActualLift:     week.ActualLift,
			BaselineProfit: week.BaselineProfit,
			ActualProfit:   week.ActualProfit,
			ProfitDelta:    week.ProfitDelta,
			Score:          week.Score,
			Grade:          gradeLabel(week.Passed),
			Passed:         week.Passed,
		}
		if result.Breakeven.Defined {
			lift := result.Breakeven.Lift
			gap := week.LiftGap
			grade.BreakevenLift = &lift
			grade.LiftGap = &gap
		}
		message, err := marshalEvent(TopicWeeklyGrade, grade)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// ErrorEvent serializes a rejected source row.
func ErrorEvent(runID, sourceFile string, rowErr *ingest.RowError, now time.Time) (models.EventMessage, error) {
	event := AnalysisErrorEvent{
		BaseEvent:  NewBaseEvent(TopicAnalysisError, runID, cuid.New(), rowErr.Product, now),
		SourceFile: sourceFile,
		Line:       int32(rowErr.Line),
		Reason:     rowErr.Message,
	}
	return marshalEvent(TopicAnalysisError, event)
}

func marshalEvent(topic string, event interface{}) (models.EventMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("error serializing %s event: %w", topic, err)
	}
	return models.EventMessage{Topic: topic, Message: data}, nil
}

func gradeLabel(passed bool) string {
	if passed {
		return models.GradePass
	}
	return models.GradeFail
}
