package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chrisdamba/promolift/internal/models"
)

var historicalRequiredColumns = []string{
	"product_name", "standard_price", "promo_price", "cogs",
	"week", "baseline_volume", "promo_volume",
}

// HistoricalParse is the outcome of parsing a relational historical file:
// one grouped input per product in first-appearance order, plus the rows
// that failed validation in line order.
type HistoricalParse struct {
	Inputs []models.HistoricalInput
	Errors []*RowError
}

// ParseHistorical validates a one-row-per-product-week table and assembles
// it into grouped inputs: rows grouped by product, price and cost fields
// taken from each product's first valid row (all rows of a product share
// them), weeks sorted ascending. The grading engine never sees ungrouped
// rows. A bad row is excluded from its group and reported, without failing
// the product's remaining weeks.
func ParseHistorical(t *Table) (*HistoricalParse, error) {
	if missing := t.MissingColumns(historicalRequiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}

	parse := &HistoricalParse{}
	groups := make(map[string]*models.HistoricalInput)
	var order []string

	for _, row := range t.Rows {
		product, obs, err := historicalFromRow(row)
		if err != nil {
			parse.Errors = append(parse.Errors, err)
			continue
		}

		group, ok := groups[product.ProductName]
		if !ok {
			group = product
			groups[product.ProductName] = group
			order = append(order, product.ProductName)
		}
		group.Weeks = append(group.Weeks, obs)
	}

	for _, name := range order {
		group := groups[name]
		sort.SliceStable(group.Weeks, func(i, j int) bool {
			return group.Weeks[i].Week < group.Weeks[j].Week
		})
		parse.Inputs = append(parse.Inputs, *group)
	}

	return parse, nil
}

// historicalFromRow validates one product-week row, returning the carrier
// record (used only for the group's first row) and the observation.
func historicalFromRow(row Row) (*models.HistoricalInput, models.WeeklyObservation, *RowError) {
	var none models.WeeklyObservation

	product := row.Fields["product_name"]
	if product == "" {
		return nil, none, rowErrorf(row, "", "product_name is required")
	}

	standardPrice, err := parseRequiredFloat(row, "standard_price")
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	promoPrice, err := parseRequiredFloat(row, "promo_price")
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	cogs, err := parseRequiredFloat(row, "cogs")
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	logistics, err := parseOptionalFloat(row, "logistics_cost", 0)
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	other, err := parseOptionalFloat(row, "other_variable_costs", 0)
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	promoCost, err := parseOptionalFloat(row, "promo_cost_per_unit", 0)
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}

	if err := ValidateEconomics(standardPrice, promoPrice, cogs, logistics, other, promoCost); err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}

	week, err := parseWeek(row)
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	baseline, err := parseRequiredFloat(row, "baseline_volume")
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	actual, err := parseRequiredFloat(row, "promo_volume")
	if err != nil {
		return nil, none, rowErrorf(row, product, "%v", err)
	}
	// zero baseline is legal (graded as zero lift by policy), negative is not
	if baseline < 0 {
		return nil, none, rowErrorf(row, product, "baseline_volume cannot be negative, got %v", baseline)
	}
	if actual < 0 {
		return nil, none, rowErrorf(row, product, "promo_volume cannot be negative, got %v", actual)
	}

	input := &models.HistoricalInput{
		ProductName:        product,
		StandardPrice:      standardPrice,
		PromoPrice:         promoPrice,
		COGS:               cogs,
		LogisticsCost:      logistics,
		OtherVariableCosts: other,
		PromoCostPerUnit:   promoCost,
	}
	obs := models.WeeklyObservation{
		Week:          week,
		BaselineUnits: baseline,
		ActualUnits:   actual,
	}
	return input, obs, nil
}
