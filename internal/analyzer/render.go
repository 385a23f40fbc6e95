package analyzer

import (
	"fmt"
	"io"

	"github.com/chrisdamba/promolift/internal/engine"
	"github.com/chrisdamba/promolift/internal/models"
)

// RenderPromotion writes the analyst-facing view of one analyzed promotion:
// the margin block, the breakeven verdict and the scenario table.
func RenderPromotion(w io.Writer, result engine.PromotionResult) {
	fmt.Fprintf(w, "Promotion analysis: %s\n", result.ProductName)
	if result.PromoTerms != "" {
		fmt.Fprintf(w, "Terms: %s\n", result.PromoTerms)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Standard price:   %10s    Promo price:  %10s\n", money(result.StandardPrice), money(result.PromoPrice))
	fmt.Fprintf(w, "  Variable cost:    %10s\n", money(result.TotalVariableCost))
	fmt.Fprintf(w, "  Standard margin:  %10s    Promo margin: %10s\n", money(result.StandardMargin), money(result.PromoMargin))
	fmt.Fprintf(w, "  Margin erosion:   %10s\n", percent(result.MarginErosion))
	if result.Breakeven.Defined {
		fmt.Fprintf(w, "  Breakeven lift:   %10s    (%s units vs %s baseline)\n",
			percent(result.Breakeven.Lift), count(result.BreakevenUnits), count(result.BaselineUnits))
	} else {
		fmt.Fprintf(w, "  Breakeven lift:   %10s    (promo margin is zero or negative; no volume recovers the lost margin)\n", "N/A")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-8s %-12s %-14s %-14s %s\n", "Lift %", "Units Sold", "Total Profit", "vs Baseline", "Status")
	for _, scenario := range result.Scenarios {
		status := models.StatusBelowBaseline
		if scenario.Profitable {
			status = models.StatusProfitable
		}
		fmt.Fprintf(w, "  %-8s %-12s %-14s %-14s %s\n",
			percent0(scenario.Lift), count(scenario.Units), money(scenario.TotalProfit), money(scenario.ProfitDelta), status)
	}
}

// RenderHistorical writes the analyst-facing view of one graded run: the
// margin block, the week-by-week table and the overall verdict.
func RenderHistorical(w io.Writer, result engine.HistoricalResult) {
	fmt.Fprintf(w, "Historical grading: %s\n\n", result.ProductName)

	fmt.Fprintf(w, "  Standard margin:  %10s    Promo margin: %10s\n", money(result.StandardMargin), money(result.PromoMargin))
	if result.Breakeven.Defined {
		fmt.Fprintf(w, "  Breakeven lift:   %10s\n", percent(result.Breakeven.Lift))
	} else {
		fmt.Fprintf(w, "  Breakeven lift:   %10s    (promo margin is zero or negative; no volume recovers the lost margin)\n", "N/A")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-6s %-10s %-10s %-10s %-8s %-14s %s\n", "Week", "Baseline", "Actual", "Lift %", "Score", "vs Baseline", "Grade")
	for _, week := range result.Weeks {
		fmt.Fprintf(w, "  %-6d %-10s %-10s %-10s %-8.1f %-14s %s\n",
			week.Week, count(week.BaselineUnits), count(week.ActualUnits),
			percent0(week.ActualLift), week.Score, money(week.ProfitDelta), gradeLabel(week.Passed))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Overall lift:     %10s    Score: %.1f\n", percent(result.OverallLift), result.OverallScore)
	fmt.Fprintf(w, "  Profit vs baseline: %8s\n", money(result.OverallProfitDelta))
	fmt.Fprintf(w, "  Verdict: %s\n", gradeLabel(result.OverallPassed))
}

// RenderBatchReport writes the run summary plus one line per rejected row.
func RenderBatchReport(w io.Writer, report *BatchReport) {
	fmt.Fprintf(w, "Processed %d rows from %s: %d analyzed, %d failed\n",
		len(report.Outcomes), report.SourceFile, report.Analyzed, report.Failed)
	for _, outcome := range report.Outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(w, "  skipped %s\n", outcome.Err)
		}
	}
}

// RenderGradeReport writes the run summary, rejected rows and a one-line
// verdict per product.
func RenderGradeReport(w io.Writer, report *GradeReport) {
	fmt.Fprintf(w, "Graded %d products from %s (%d rows rejected)\n",
		len(report.Results), report.SourceFile, len(report.RowErrors))
	for _, rowErr := range report.RowErrors {
		fmt.Fprintf(w, "  skipped %s\n", rowErr)
	}
	for _, result := range report.Results {
		fmt.Fprintf(w, "  %-28s lift %8s  score %5.1f  %s\n",
			result.ProductName, percent(result.OverallLift), result.OverallScore, gradeLabel(result.OverallPassed))
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func percent0(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func count(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
