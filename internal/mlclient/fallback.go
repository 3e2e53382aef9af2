package mlclient

import "math"

// Base prices per kg by crop type, matching the prediction service's own
// fallback table so both sides degrade to the same numbers.
var basePrices = map[string]float64{
	"Wheat":      45.0,
	"Rice":       65.0,
	"Corn":       35.0,
	"Pulses":     85.0,
	"Vegetables": 32.0,
	"Fruits":     55.0,
	"Sugarcane":  40.0,
	"Cotton":     60.0,
	"Soybean":    50.0,
}

const defaultBasePrice = 40.0

var qualityMultipliers = map[string]float64{
	"Premium": 1.2,
	"Grade_A": 1.0,
	"Grade_B": 0.8,
	"Grade_C": 0.6,
}

var regionMultipliers = map[string]float64{
	"North": 1.0,
	"South": 1.05,
	"East":  0.95,
	"West":  1.02,
}

var seasonMultipliers = map[string]float64{
	"Winter": 1.0,
	"Spring": 1.1,
	"Summer": 0.95,
	"Autumn": 1.05,
}

// FallbackPrice computes a deterministic price per kg from the static
// base-price table: base x quality x region x season, with a bulk discount
// above 2000 kg and 5000 kg. Rounded to two decimal places.
func FallbackPrice(features Features) float64 {
	price, ok := basePrices[features.CropType]
	if !ok {
		price = defaultBasePrice
	}

	price *= multiplier(qualityMultipliers, features.Quality)
	price *= multiplier(regionMultipliers, features.Region)
	price *= multiplier(seasonMultipliers, features.Season)

	if features.QuantityKg > 5000 {
		price *= 0.9
	} else if features.QuantityKg > 2000 {
		price *= 0.95
	}

	return math.Round(price*100) / 100
}

func multiplier(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

// QualityMultiplier returns the price coefficient for a quality grade,
// defaulting to 1.0 for unknown grades.
func QualityMultiplier(quality string) float64 {
	return multiplier(qualityMultipliers, quality)
}

// FallbackConfidence is the confidence reported for locally computed prices.
const FallbackConfidence = 0.65
