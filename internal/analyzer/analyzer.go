// Package analyzer drives the promotion analysis runs: it feeds parsed
// inputs through the engine, renders results for the terminal and publishes
// analysis events to the configured output destination.
package analyzer

import (
	"fmt"
	"time"

	"github.com/chrisdamba/promolift/internal/engine"
	"github.com/chrisdamba/promolift/internal/ingest"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
)

type Analyzer struct {
	Config *models.Config
}

func New(config *models.Config) *Analyzer {
	return &Analyzer{Config: config}
}

// PromotionOutcome ties one source row to its analysis result or to the
// error that rejected it, never both.
type PromotionOutcome struct {
	Line    int
	Product string
	Result  *engine.PromotionResult
	Err     *ingest.RowError
}

// BatchReport summarises one batch analysis run.
type BatchReport struct {
	RunID      string
	SourceFile string
	Analyzed   int
	Failed     int
	Outcomes   []PromotionOutcome
}

// GradeReport summarises one historical grading run.
type GradeReport struct {
	RunID      string
	SourceFile string
	Results    []engine.HistoricalResult
	RowErrors  []*ingest.RowError
}

func (a *Analyzer) defaultBaseline() float64 {
	if a.Config.DefaultBaselineUnits > 0 {
		return a.Config.DefaultBaselineUnits
	}
	return models.DefaultBaselineUnits
}

// AnalyzePromotion validates a single promotion record and runs it through
// the engine. Flag-driven input takes this path; file rows are validated
// during parsing instead.
func (a *Analyzer) AnalyzePromotion(input models.PromotionInput) (engine.PromotionResult, error) {
	if input.ProductName == "" {
		return engine.PromotionResult{}, fmt.Errorf("product name is required")
	}
	if input.BaselineUnits <= 0 {
		input.BaselineUnits = a.defaultBaseline()
	}
	if err := ingest.ValidateEconomics(
		input.StandardPrice, input.PromoPrice, input.COGS,
		input.LogisticsCost, input.OtherVariableCosts, input.PromoCostPerUnit,
	); err != nil {
		return engine.PromotionResult{}, err
	}
	return engine.AnalyzePromotion(input), nil
}

// PublishPromotion emits one analyzed promotion's events to the configured
// output destination. The single-record analyze path uses this when a real
// sink is configured; batch runs publish inline instead.
func (a *Analyzer) PublishPromotion(result engine.PromotionResult) error {
	sink := a.determineOutputDestination()
	messages, err := PromotionEvents(cuid.New(), result, time.Now())
	if err != nil {
		return err
	}
	if err := writeAll(sink, messages); err != nil {
		return err
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// AnalyzeFile runs every row of a flat promotion file through the engine,
// publishing events to the configured destination. Outcomes come back in
// input order, one per data row.
func (a *Analyzer) AnalyzeFile(path string) (*BatchReport, error) {
	return a.AnalyzeFileTo(a.determineOutputDestination(), path)
}

// AnalyzeFileTo is AnalyzeFile with an explicit destination. The destination
// is closed before returning.
func (a *Analyzer) AnalyzeFileTo(sink OutputDestination, path string) (*BatchReport, error) {
	table, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := ingest.ParsePromotions(table, a.defaultBaseline())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	report := &BatchReport{
		RunID:      cuid.New(),
		SourceFile: path,
	}
	now := time.Now()

	bar := progressbar.Default(int64(len(rows)), "analyzing promotions")
	for _, row := range rows {
		_ = bar.Add(1)

		if row.Err != nil {
			report.Failed++
			report.Outcomes = append(report.Outcomes, PromotionOutcome{
				Line:    row.Line,
				Product: row.Err.Product,
				Err:     row.Err,
			})
			message, err := ErrorEvent(report.RunID, path, row.Err, now)
			if err != nil {
				return nil, err
			}
			if err := sink.WriteMessage(message.Topic, message.Message); err != nil {
				return nil, fmt.Errorf("failed to write message: %w", err)
			}
			continue
		}

		result := engine.AnalyzePromotion(row.Input)
		report.Analyzed++
		report.Outcomes = append(report.Outcomes, PromotionOutcome{
			Line:    row.Line,
			Product: result.ProductName,
			Result:  &result,
		})

		messages, err := PromotionEvents(report.RunID, result, now)
		if err != nil {
			return nil, err
		}
		if err := writeAll(sink, messages); err != nil {
			return nil, err
		}
	}

	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output: %w", err)
	}
	return report, nil
}

// GradeFile grades every product of a relational historical file against
// its breakeven target, publishing events to the configured destination.
func (a *Analyzer) GradeFile(path string) (*GradeReport, error) {
	return a.GradeFileTo(a.determineOutputDestination(), path)
}

// GradeFileTo is GradeFile with an explicit destination. The destination is
// closed before returning.
func (a *Analyzer) GradeFileTo(sink OutputDestination, path string) (*GradeReport, error) {
	table, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parse, err := ingest.ParseHistorical(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	report := &GradeReport{
		RunID:      cuid.New(),
		SourceFile: path,
		RowErrors:  parse.Errors,
	}
	now := time.Now()

	for _, rowErr := range parse.Errors {
		message, err := ErrorEvent(report.RunID, path, rowErr, now)
		if err != nil {
			return nil, err
		}
		if err := sink.WriteMessage(message.Topic, message.Message); err != nil {
			return nil, fmt.Errorf("failed to write message: %w", err)
		}
	}

	bar := progressbar.Default(int64(len(parse.Inputs)), "grading promotions")
	for _, input := range parse.Inputs {
		_ = bar.Add(1)

		result := engine.AnalyzeHistorical(input)
		report.Results = append(report.Results, result)

		messages, err := HistoricalEvents(report.RunID, result, now)
		if err != nil {
			return nil, err
		}
		if err := writeAll(sink, messages); err != nil {
			return nil, err
		}
	}

	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output: %w", err)
	}
	return report, nil
}

func writeAll(sink OutputDestination, messages []models.EventMessage) error {
	for _, message := range messages {
		if err := sink.WriteMessage(message.Topic, message.Message); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}
	return nil
}
