package models

// PromotionInput is a single planned promotion as it arrives from ingestion:
// identity, pricing, the itemized per-unit variable cost stack and the
// baseline sales volume the promotion is judged against. Optional fields are
// resolved to their defaults before the record is constructed; the analysis
// engine never probes for missing values.
type PromotionInput struct {
	ProductName        string
	StandardPrice      float64
	PromoPrice         float64
	COGS               float64
	LogisticsCost      float64
	OtherVariableCosts float64

	// PromoCostPerUnit is an extra per-unit cost incurred only while the
	// promotion runs (a retailer subsidy fee, funded displays). It reduces
	// the promotional margin and leaves the standard margin untouched.
	PromoCostPerUnit float64

	// PromoTerms is free-text commercial context ("buy 2 get 1", "Q3 flyer").
	// Carried through for reporting only; never interpreted.
	PromoTerms string

	BaselineUnits float64
}
