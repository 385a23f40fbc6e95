package analyzer

import (
	"fmt"
	"log"
	"time"

	"github.com/xitongsys/parquet-go/schema"
)

// one topic per event family
const (
	TopicPromotionAnalysis = "promotion_analysis_events"
	TopicPromotionScenario = "promotion_scenario_events"
	TopicWeeklyGrade       = "weekly_grade_events"
	TopicHistoricalSummary = "historical_summary_events"
	TopicAnalysisError     = "analysis_error_events"
)

// BaseEvent is the common structure for all events
type BaseEvent struct {
	Timestamp   int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType   string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID       string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	AnalysisID  string `json:"analysisId" parquet:"name=analysisId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ProductName string `json:"productName,omitempty" parquet:"name=productName,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// PromotionAnalysisEvent carries the per-unit economics of one analyzed
// promotion. Breakeven fields are absent when the promotional margin leaves
// no solvable breakeven.
type PromotionAnalysisEvent struct {
	BaseEvent
	StandardPrice     float64  `json:"standardPrice" parquet:"name=standardPrice,type=DOUBLE"`
	PromoPrice        float64  `json:"promoPrice" parquet:"name=promoPrice,type=DOUBLE"`
	PromoTerms        string   `json:"promoTerms,omitempty" parquet:"name=promoTerms,type=BYTE_ARRAY,convertedtype=UTF8"`
	TotalVariableCost float64  `json:"totalVariableCost" parquet:"name=totalVariableCost,type=DOUBLE"`
	StandardMargin    float64  `json:"standardMargin" parquet:"name=standardMargin,type=DOUBLE"`
	PromoMargin       float64  `json:"promoMargin" parquet:"name=promoMargin,type=DOUBLE"`
	MarginErosion     float64  `json:"marginErosion" parquet:"name=marginErosion,type=DOUBLE"`
	BreakevenLift     *float64 `json:"breakevenLift" parquet:"name=breakevenLift,type=DOUBLE,repetitiontype=OPTIONAL"`
	BreakevenUnits    *float64 `json:"breakevenUnits" parquet:"name=breakevenUnits,type=DOUBLE,repetitiontype=OPTIONAL"`
	BaselineUnits     float64  `json:"baselineUnits" parquet:"name=baselineUnits,type=DOUBLE"`
	BaselineProfit    float64  `json:"baselineProfit" parquet:"name=baselineProfit,type=DOUBLE"`
}

// PromotionScenarioEvent is one projected lift level of an analyzed promotion
type PromotionScenarioEvent struct {
	BaseEvent
	Lift        float64 `json:"lift" parquet:"name=lift,type=DOUBLE"`
	Units       float64 `json:"units" parquet:"name=units,type=DOUBLE"`
	TotalProfit float64 `json:"totalProfit" parquet:"name=totalProfit,type=DOUBLE"`
	ProfitDelta float64 `json:"profitDelta" parquet:"name=profitDelta,type=DOUBLE"`
	Profitable  bool    `json:"profitable" parquet:"name=profitable,type=BOOLEAN"`
}

// WeeklyGradeEvent is one graded week of a historical promotion run
type WeeklyGradeEvent struct {
	BaseEvent
	Week           int32    `json:"week" parquet:"name=week,type=INT32"`
	BaselineUnits  float64  `json:"baselineUnits" parquet:"name=baselineUnits,type=DOUBLE"`
	ActualUnits    float64  `json:"actualUnits" parquet:"name=actualUnits,type=DOUBLE"`
	ActualLift     float64  `json:"actualLift" parquet:"name=actualLift,type=DOUBLE"`
	BreakevenLift  *float64 `json:"breakevenLift" parquet:"name=breakevenLift,type=DOUBLE,repetitiontype=OPTIONAL"`
	LiftGap        *float64 `json:"liftGap" parquet:"name=liftGap,type=DOUBLE,repetitiontype=OPTIONAL"`
	BaselineProfit float64  `json:"baselineProfit" parquet:"name=baselineProfit,type=DOUBLE"`
	ActualProfit   float64  `json:"actualProfit" parquet:"name=actualProfit,type=DOUBLE"`
	ProfitDelta    float64  `json:"profitDelta" parquet:"name=profitDelta,type=DOUBLE"`
	Score          float64  `json:"score" parquet:"name=score,type=DOUBLE"`
	Grade          string   `json:"grade" parquet:"name=grade,type=BYTE_ARRAY,convertedtype=UTF8"`
	Passed         bool     `json:"passed" parquet:"name=passed,type=BOOLEAN"`
}

// HistoricalSummaryEvent is the whole-run verdict for one product's
// historical promotion
type HistoricalSummaryEvent struct {
	BaseEvent
	StandardMargin      float64  `json:"standardMargin" parquet:"name=standardMargin,type=DOUBLE"`
	PromoMargin         float64  `json:"promoMargin" parquet:"name=promoMargin,type=DOUBLE"`
	BreakevenLift       *float64 `json:"breakevenLift" parquet:"name=breakevenLift,type=DOUBLE,repetitiontype=OPTIONAL"`
	WeeksGraded         int32    `json:"weeksGraded" parquet:"name=weeksGraded,type=INT32"`
	WeeksPassed         int32    `json:"weeksPassed" parquet:"name=weeksPassed,type=INT32"`
	TotalBaselineUnits  float64  `json:"totalBaselineUnits" parquet:"name=totalBaselineUnits,type=DOUBLE"`
	TotalActualUnits    float64  `json:"totalActualUnits" parquet:"name=totalActualUnits,type=DOUBLE"`
	TotalBaselineProfit float64  `json:"totalBaselineProfit" parquet:"name=totalBaselineProfit,type=DOUBLE"`
	TotalActualProfit   float64  `json:"totalActualProfit" parquet:"name=totalActualProfit,type=DOUBLE"`
	OverallLift         float64  `json:"overallLift" parquet:"name=overallLift,type=DOUBLE"`
	OverallProfitDelta  float64  `json:"overallProfitDelta" parquet:"name=overallProfitDelta,type=DOUBLE"`
	OverallScore        float64  `json:"overallScore" parquet:"name=overallScore,type=DOUBLE"`
	Grade               string   `json:"grade" parquet:"name=grade,type=BYTE_ARRAY,convertedtype=UTF8"`
	Passed              bool     `json:"passed" parquet:"name=passed,type=BOOLEAN"`
}

// AnalysisErrorEvent records a source row that failed validation
type AnalysisErrorEvent struct {
	BaseEvent
	SourceFile string `json:"sourceFile" parquet:"name=sourceFile,type=BYTE_ARRAY,convertedtype=UTF8"`
	Line       int32  `json:"line" parquet:"name=line,type=INT32"`
	Reason     string `json:"reason" parquet:"name=reason,type=BYTE_ARRAY,convertedtype=UTF8"`
}

func GetSchema(eventType string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch eventType {
	case TopicPromotionAnalysis:
		sh, err = schema.NewSchemaHandlerFromStruct(new(PromotionAnalysisEvent))
	case TopicPromotionScenario:
		sh, err = schema.NewSchemaHandlerFromStruct(new(PromotionScenarioEvent))
	case TopicWeeklyGrade:
		sh, err = schema.NewSchemaHandlerFromStruct(new(WeeklyGradeEvent))
	case TopicHistoricalSummary:
		sh, err = schema.NewSchemaHandlerFromStruct(new(HistoricalSummaryEvent))
	case TopicAnalysisError:
		sh, err = schema.NewSchemaHandlerFromStruct(new(AnalysisErrorEvent))
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err != nil {
		log.Printf("Error creating schema for %s: %v", eventType, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", eventType, err)
	}

	return sh, nil
}

func NewBaseEvent(eventType, runID, analysisID, productName string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		Timestamp:   timestamp.Unix(),
		EventType:   eventType,
		RunID:       runID,
		AnalysisID:  analysisID,
		ProductName: productName,
	}
}
