package factories

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chrisdamba/promolift/internal/models"
	"github.com/xuri/excelize/v2"
)

var promotionColumns = []string{
	"product_name", "standard_price", "promo_price", "cogs",
	"logistics_cost", "other_variable_costs", "promo_cost_per_unit",
	"promo_terms", "baseline_units",
}

var historicalColumns = []string{
	"product_name", "standard_price", "promo_price", "cogs",
	"logistics_cost", "other_variable_costs", "promo_cost_per_unit",
	"week", "baseline_volume", "promo_volume",
}

// WritePromotionsFile writes a flat promotion table, one row per record,
// picking CSV or XLSX by the output extension. The columns match what the
// batch analysis accepts, so the written file parses back without edits.
func WritePromotionsFile(path string, inputs []models.PromotionInput) error {
	records := make([][]string, 0, len(inputs))
	for _, input := range inputs {
		records = append(records, promotionRecord(input))
	}
	return writeTable(path, promotionColumns, records)
}

// WriteHistoricalFile writes a relational historical table, one row per
// product week.
func WriteHistoricalFile(path string, inputs []models.HistoricalInput) error {
	var records [][]string
	for _, input := range inputs {
		for _, week := range input.Weeks {
			records = append(records, historicalRecord(input, week))
		}
	}
	return writeTable(path, historicalColumns, records)
}

func promotionRecord(input models.PromotionInput) []string {
	return []string{
		input.ProductName,
		money(input.StandardPrice),
		money(input.PromoPrice),
		money(input.COGS),
		money(input.LogisticsCost),
		money(input.OtherVariableCosts),
		money(input.PromoCostPerUnit),
		input.PromoTerms,
		units(input.BaselineUnits),
	}
}

func historicalRecord(input models.HistoricalInput, week models.WeeklyObservation) []string {
	return []string{
		input.ProductName,
		money(input.StandardPrice),
		money(input.PromoPrice),
		money(input.COGS),
		money(input.LogisticsCost),
		money(input.OtherVariableCosts),
		money(input.PromoCostPerUnit),
		strconv.Itoa(week.Week),
		units(week.BaselineUnits),
		units(week.ActualUnits),
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func units(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func writeTable(path string, header []string, records [][]string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return writeCSV(path, header, records)
	case ".xlsx":
		return writeXLSX(path, header, records)
	default:
		return fmt.Errorf("unsupported template format %q (expected .csv or .xlsx)", ext)
	}
}

func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(path string, header []string, records [][]string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := workbook.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for i, record := range records {
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := workbook.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
