package analysis

import "math"

// Tier is a categorical air-quality label derived from mean CO2 (ppm).
type Tier string

const (
	TierGood     Tier = "GOOD"
	TierModerate Tier = "MODERATE"
	TierPoor     Tier = "POOR"
	TierUnknown  Tier = "UNKNOWN"
)

// CO2 thresholds in ppm. Lower bounds are inclusive for the higher tier.
const (
	ModerateThreshold = 800.0
	PoorThreshold     = 1200.0
)

// Classify maps a CO2 value to a tier. NaN has no tier.
func Classify(co2 float64) Tier {
	switch {
	case math.IsNaN(co2):
		return TierUnknown
	case co2 < ModerateThreshold:
		return TierGood
	case co2 < PoorThreshold:
		return TierModerate
	default:
		return TierPoor
	}
}

// Advice is the user-facing message for the tier.
func (t Tier) Advice() string {
	switch t {
	case TierGood:
		return "Good air quality"
	case TierModerate:
		return "Moderate air quality, consider ventilation"
	case TierPoor:
		return "Poor air quality, high CO2 levels detected"
	default:
		return "Air quality unknown, no valid CO2 readings"
	}
}

// Tiers lists the classified tiers in severity order.
var Tiers = []Tier{TierGood, TierModerate, TierPoor}
