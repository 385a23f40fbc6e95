package factories

import (
	"math"

	"github.com/chrisdamba/promolift/internal/models"
)

type HistoricalFactory struct{}

// CreateHistorical generates one product's promotion run: a price and cost
// block plus the given number of consecutive promoted weeks, with actual
// volumes following a spike-then-decay response to the discount depth.
func (hf *HistoricalFactory) CreateHistorical(config *models.Config, weeks int) models.HistoricalInput {
	return hf.createWithName(config, productCatalog[rng.Intn(len(productCatalog))], weeks)
}

// CreateHistoricals generates a batch of promotion runs with distinct
// product names.
func (hf *HistoricalFactory) CreateHistoricals(config *models.Config, count, weeks int) []models.HistoricalInput {
	inputs := make([]models.HistoricalInput, 0, count)
	for _, name := range pickNames(count) {
		inputs = append(inputs, hf.createWithName(config, name, weeks))
	}
	return inputs
}

func (hf *HistoricalFactory) createWithName(config *models.Config, name string, weeks int) models.HistoricalInput {
	economics := randomEconomics()
	profile := profileForDiscount(economics.Discount)
	peak := profile.LiftRange.Min + rng.Float64()*(profile.LiftRange.Max-profile.LiftRange.Min)
	baseline := randomBaseline(config)

	input := models.HistoricalInput{
		ProductName:        name,
		StandardPrice:      economics.StandardPrice,
		PromoPrice:         economics.PromoPrice,
		COGS:               economics.COGS,
		LogisticsCost:      economics.LogisticsCost,
		OtherVariableCosts: economics.OtherCosts,
		PromoCostPerUnit:   economics.PromoCost,
	}

	for week := 1; week <= weeks; week++ {
		// baseline drifts a little week to week, the lift decays
		weekBaseline := math.Round(baseline * (0.9 + rng.Float64()*0.2))
		lift := weeklyLift(peak, profile, week)
		actual := math.Max(0, math.Round(weekBaseline*(1+lift)))

		input.Weeks = append(input.Weeks, models.WeeklyObservation{
			Week:          week,
			BaselineUnits: weekBaseline,
			ActualUnits:   actual,
		})
	}

	return input
}
