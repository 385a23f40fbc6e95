package models

// WeeklyObservation is one observed promotion period: the volume the product
// would have sold at standard price and the volume it actually sold.
type WeeklyObservation struct {
	Week          int
	BaselineUnits float64
	ActualUnits   float64
}

// HistoricalInput is a promotion that already ran: the same price and cost
// fields as PromotionInput (minus the single baseline volume, since every
// week carries its own) plus the ordered sequence of weekly observations.
// Ingestion groups the relational rows by product and sorts the weeks before
// this record is built.
type HistoricalInput struct {
	ProductName        string
	StandardPrice      float64
	PromoPrice         float64
	COGS               float64
	LogisticsCost      float64
	OtherVariableCosts float64
	PromoCostPerUnit   float64
	Weeks              []WeeklyObservation
}
