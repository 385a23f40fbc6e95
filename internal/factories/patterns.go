// Package factories generates realistic sample promotions and historical
// promotion runs, used to produce template files analysts can fill in and
// fixture data for demos. Generated records always satisfy the ingest
// validation rules, so a written sample file parses back cleanly.
package factories

import (
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
)

var (
	rng  = rand.New(rand.NewSource(time.Now().UnixNano()))
	fake = faker.New()
)

// SeedRng makes generation reproducible for a fixed seed.
func SeedRng(seed int64) {
	rng = rand.New(rand.NewSource(seed))
	fake = faker.NewWithSeed(rand.NewSource(seed))
}

// LiftProfile describes how shoppers respond to a discount depth: the range
// the peak sales lift is drawn from, week-to-week noise, and how quickly the
// response fades once the novelty wears off.
type LiftProfile struct {
	Name      string
	LiftRange struct {
		Min float64
		Max float64
	}
	NoiseStd    float64
	WeeklyDecay float64
}

var LiftProfiles = map[string]LiftProfile{
	"deep_discount": {
		Name: "deep_discount",
		LiftRange: struct {
			Min float64
			Max float64
		}{0.6, 1.8},
		NoiseStd:    0.15,
		WeeklyDecay: 0.75,
	},
	"moderate_discount": {
		Name: "moderate_discount",
		LiftRange: struct {
			Min float64
			Max float64
		}{0.25, 0.9},
		NoiseStd:    0.1,
		WeeklyDecay: 0.85,
	},
	"shallow_discount": {
		Name: "shallow_discount",
		LiftRange: struct {
			Min float64
			Max float64
		}{0.0, 0.35},
		NoiseStd:    0.08,
		WeeklyDecay: 0.9,
	},
}

func profileForDiscount(discount float64) LiftProfile {
	switch {
	case discount >= 0.30:
		return LiftProfiles["deep_discount"]
	case discount >= 0.15:
		return LiftProfiles["moderate_discount"]
	default:
		return LiftProfiles["shallow_discount"]
	}
}

func normalLift(mean, std, min, max float64) float64 {
	// Box-Muller transform for normal distribution
	u1 := rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	lift := mean + z*std

	// clamp to allowed range
	return math.Max(min, math.Min(max, lift))
}

// weeklyLift models the typical in-store response curve: a spike in the
// first promoted week that decays towards baseline in later weeks, with
// per-week noise on top.
func weeklyLift(peak float64, profile LiftProfile, week int) float64 {
	decayed := peak * math.Pow(profile.WeeklyDecay, float64(week-1))
	return normalLift(decayed, profile.NoiseStd, -0.5, decayed+3*profile.NoiseStd)
}
