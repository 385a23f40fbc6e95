package ingest

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/promolift/internal/models"
)

var promotionRequiredColumns = []string{"product_name", "standard_price", "promo_price", "cogs"}

// PromotionRow is the parse outcome for one source row: either a fully
// resolved promotion input or the validation error that rejected it, never
// both.
type PromotionRow struct {
	Line  int
	Input models.PromotionInput
	Err   *RowError
}

// ParsePromotions validates a flat promotion table and resolves optional
// columns to their defaults, yielding one outcome per data row in input
// order. Structural problems (missing required columns, no data rows) fail
// the whole parse; a bad value fails only its own row.
func ParsePromotions(t *Table, defaultBaselineUnits float64) ([]PromotionRow, error) {
	if missing := t.MissingColumns(promotionRequiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}

	rows := make([]PromotionRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		input, err := promotionFromRow(row, defaultBaselineUnits)
		if err != nil {
			rows = append(rows, PromotionRow{Line: row.Line, Err: err})
			continue
		}
		rows = append(rows, PromotionRow{Line: row.Line, Input: input})
	}
	return rows, nil
}

func promotionFromRow(row Row, defaultBaselineUnits float64) (models.PromotionInput, *RowError) {
	product := row.Fields["product_name"]
	if product == "" {
		return models.PromotionInput{}, rowErrorf(row, "", "product_name is required")
	}

	standardPrice, err := parseRequiredFloat(row, "standard_price")
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	promoPrice, err := parseRequiredFloat(row, "promo_price")
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	cogs, err := parseRequiredFloat(row, "cogs")
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}

	logistics, err := parseOptionalFloat(row, "logistics_cost", 0)
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	other, err := parseOptionalFloat(row, "other_variable_costs", 0)
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	promoCost, err := parseOptionalFloat(row, "promo_cost_per_unit", 0)
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	baseline, err := parseOptionalFloat(row, "baseline_units", defaultBaselineUnits)
	if err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}
	if baseline <= 0 {
		return models.PromotionInput{}, rowErrorf(row, product, "baseline_units must be positive, got %v", baseline)
	}

	if err := ValidateEconomics(standardPrice, promoPrice, cogs, logistics, other, promoCost); err != nil {
		return models.PromotionInput{}, rowErrorf(row, product, "%v", err)
	}

	return models.PromotionInput{
		ProductName:        product,
		StandardPrice:      standardPrice,
		PromoPrice:         promoPrice,
		COGS:               cogs,
		LogisticsCost:      logistics,
		OtherVariableCosts: other,
		PromoCostPerUnit:   promoCost,
		PromoTerms:         row.Fields["promo_terms"],
		BaselineUnits:      baseline,
	}, nil
}
