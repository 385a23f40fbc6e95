package factories

import (
	"fmt"
	"math"

	"github.com/chrisdamba/promolift/internal/models"
)

type PromotionFactory struct{}

var productCatalog = []string{
	"oat milk 1l",
	"semi-skimmed milk 2l",
	"greek yoghurt 500g",
	"mature cheddar 350g",
	"salted butter 250g",
	"free range eggs 12pk",
	"sourdough loaf 800g",
	"wholemeal wraps 6pk",
	"granola 750g",
	"porridge oats 1kg",
	"orange juice 1.5l",
	"sparkling water 12pk",
	"cola 2l",
	"energy drink 4pk",
	"ground coffee 227g",
	"tea 80ct",
	"dark chocolate 100g",
	"biscuit selection 400g",
	"salted crisps 6pk",
	"tortilla chips 200g",
	"salsa dip 300g",
	"pasta 500g",
	"passata 690g",
	"olive oil 750ml",
	"basmati rice 1kg",
	"chicken breast 640g",
	"beef mince 500g",
	"salmon fillets 240g",
	"frozen peas 900g",
	"margherita pizza 330g",
	"vanilla ice cream 900ml",
	"washing up liquid 450ml",
	"laundry pods 38ct",
	"kitchen roll 4pk",
	"toilet tissue 9pk",
	"shampoo 400ml",
	"toothpaste 100ml",
	"hand soap 250ml",
	"dog food 12x400g",
	"cat litter 10l",
}

var promoTermPool = []string{
	"3 for 2 multibuy",
	"buy one get one half price",
	"loyalty card members only",
	"end-of-aisle feature display",
	"weekend flash sale",
	"seasonal clearance",
	"bundle with any snack item",
	"supplier funded price cut",
}

// promotionEconomics is the shared price and cost block drawn for a sample
// record. Values are rounded to whole pence and always leave a positive
// margin before the promo fee, so the ingest rules accept them.
type promotionEconomics struct {
	StandardPrice float64
	PromoPrice    float64
	COGS          float64
	LogisticsCost float64
	OtherCosts    float64
	PromoCost     float64
	Discount      float64
}

func randomEconomics() promotionEconomics {
	standard := fake.Float64(2, 2, 120)
	discount := fake.Float64(2, 5, 45) / 100
	promo := roundMoney(standard * (1 - discount))

	// split a share of the promo price into the variable cost stack
	variable := promo * fake.Float64(2, 40, 85) / 100
	cogsShare := fake.Float64(2, 70, 90) / 100
	cogs := roundMoney(variable * cogsShare)
	logistics := roundMoney(variable * (1 - cogsShare) * 0.6)
	other := roundMoney(variable * (1 - cogsShare) * 0.4)

	margin := promo - (cogs + logistics + other)
	promoCost := 0.0
	switch r := rng.Float64(); {
	case r < 0.10:
		// occasionally the funding fee eats the whole margin, producing a
		// promotion with no breakeven
		promoCost = roundMoney(margin * fake.Float64(2, 110, 180) / 100)
	case r < 0.55:
		promoCost = roundMoney(margin * fake.Float64(2, 5, 40) / 100)
	}

	return promotionEconomics{
		StandardPrice: roundMoney(standard),
		PromoPrice:    promo,
		COGS:          cogs,
		LogisticsCost: logistics,
		OtherCosts:    other,
		PromoCost:     promoCost,
		Discount:      discount,
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func randomBaseline(config *models.Config) float64 {
	baseline := config.DefaultBaselineUnits
	if baseline <= 0 {
		baseline = models.DefaultBaselineUnits
	}
	baseline = math.Round(baseline * fake.Float64(2, 50, 300) / 100)
	return math.Max(1, baseline)
}

// pickNames draws distinct product names so a generated file never collides
// two rows onto the same product.
func pickNames(count int) []string {
	perm := rng.Perm(len(productCatalog))
	names := make([]string, count)
	for i := range names {
		name := productCatalog[perm[i%len(productCatalog)]]
		if i >= len(productCatalog) {
			name = fmt.Sprintf("%s batch %d", name, i/len(productCatalog)+1)
		}
		names[i] = name
	}
	return names
}

func (pf *PromotionFactory) CreatePromotion(config *models.Config) models.PromotionInput {
	return pf.createWithName(config, productCatalog[rng.Intn(len(productCatalog))])
}

// CreatePromotions generates a batch of promotion records with distinct
// product names.
func (pf *PromotionFactory) CreatePromotions(config *models.Config, count int) []models.PromotionInput {
	inputs := make([]models.PromotionInput, 0, count)
	for _, name := range pickNames(count) {
		inputs = append(inputs, pf.createWithName(config, name))
	}
	return inputs
}

func (pf *PromotionFactory) createWithName(config *models.Config, name string) models.PromotionInput {
	economics := randomEconomics()

	terms := ""
	if rng.Float64() < 0.8 {
		terms = promoTermPool[rng.Intn(len(promoTermPool))]
	}

	return models.PromotionInput{
		ProductName:        name,
		StandardPrice:      economics.StandardPrice,
		PromoPrice:         economics.PromoPrice,
		COGS:               economics.COGS,
		LogisticsCost:      economics.LogisticsCost,
		OtherVariableCosts: economics.OtherCosts,
		PromoCostPerUnit:   economics.PromoCost,
		PromoTerms:         terms,
		BaselineUnits:      randomBaseline(config),
	}
}
