package ingest

import (
	"fmt"
	"math"
	"strconv"
)

// RowError is a validation failure tied to one source row. Batch processing
// collects these instead of aborting: a bad row fails alone.
type RowError struct {
	Line    int
	Product string
	Message string
}

func (e *RowError) Error() string {
	if e.Product != "" {
		return fmt.Sprintf("line %d (%s): %s", e.Line, e.Product, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func rowErrorf(row Row, product, format string, args ...interface{}) *RowError {
	return &RowError{
		Line:    row.Line,
		Product: product,
		Message: fmt.Sprintf(format, args...),
	}
}

func parseRequiredFloat(row Row, col string) (float64, error) {
	cell := row.Fields[col]
	if cell == "" {
		return 0, fmt.Errorf("%s is required", col)
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", col, cell)
	}
	return value, nil
}

func parseOptionalFloat(row Row, col string, fallback float64) (float64, error) {
	cell := row.Fields[col]
	if cell == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", col, cell)
	}
	return value, nil
}

func parseWeek(row Row) (int, error) {
	value, err := parseRequiredFloat(row, "week")
	if err != nil {
		return 0, err
	}
	if value != math.Trunc(value) || value < 1 {
		return 0, fmt.Errorf("week must be a positive integer, got %q", row.Fields["week"])
	}
	return int(value), nil
}

// ValidateEconomics enforces the invariants every promotion record must hold
// before it reaches the engine: non-negative money fields, a promotional
// price strictly below the standard price, and a non-promo cost stack that
// leaves room for a promotional margin. The promo-only extra cost is exempt
// from the last check; it alone may push the promotional margin negative,
// which the engine reports as an unsolvable breakeven rather than an error.
func ValidateEconomics(standardPrice, promoPrice, cogs, logistics, other, promoCost float64) error {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"standard_price", standardPrice},
		{"promo_price", promoPrice},
		{"cogs", cogs},
		{"logistics_cost", logistics},
		{"other_variable_costs", other},
		{"promo_cost_per_unit", promoCost},
	} {
		if check.value < 0 {
			return fmt.Errorf("%s cannot be negative, got %v", check.name, check.value)
		}
	}

	if promoPrice >= standardPrice {
		return fmt.Errorf("promo_price (%v) must be below standard_price (%v)", promoPrice, standardPrice)
	}

	if totalVariable := cogs + logistics + other; totalVariable >= promoPrice {
		return fmt.Errorf("variable costs (%v) leave no margin at the promo price (%v)", totalVariable, promoPrice)
	}

	return nil
}
