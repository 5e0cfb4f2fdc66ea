package dataset

import (
	"regexp"
	"strings"
)

// Canonical column names.
const (
	ColDate        = "date"
	ColTime        = "time"
	ColTimestamp   = "timestamp"
	ColTemperature = "temperature"
	ColHumidity    = "humidity"
	ColCO2         = "co2"
)

// Required lists the columns every upload must carry, in reporting order.
var Required = []string{ColDate, ColTime, ColTemperature, ColHumidity, ColCO2}

// ValueColumns are coerced to numbers and imputed during Clean.
var ValueColumns = []string{ColTemperature, ColHumidity, ColCO2}

// aliases maps unit-less normalized header bases to canonical names.
var aliases = map[string]string{
	"date":              ColDate,
	"day":               ColDate,
	"time":              ColTime,
	"temperature":       ColTemperature,
	"temp":              ColTemperature,
	"humidity":          ColHumidity,
	"relative humidity": ColHumidity,
	"rh":                ColHumidity,
	"co2":               ColCO2,
	"carbon dioxide":    ColCO2,
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*?)\s*\(([^)]*)\)\s*$`),  // e.g., temperature (°c)
	regexp.MustCompile(`^(.*?)\s*\[([^\]]*)\]\s*$`), // e.g., co2 [ppm]
	regexp.MustCompile(`^(.*?)[_\s-]+(°c|°f|degc|c|%|pct|ppm|ppb)$`),
}

// NormalizeName trims and lowercases a header.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalName resolves a raw header to one of the Required names. The unit
// suffix is stripped first, so "Temperature(°C)", "co2_ppm" and "CO₂ (ppm)"
// all resolve.
func CanonicalName(header string) (string, bool) {
	n := strings.ReplaceAll(NormalizeName(header), "₂", "2")
	if c, ok := aliases[n]; ok {
		return c, true
	}
	base, _ := splitUnits(n)
	c, ok := aliases[base]
	return c, ok
}

func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 3 {
			base := strings.TrimSpace(m[1])
			if base != "" {
				return base, strings.TrimSpace(m[2])
			}
		}
	}
	return s, ""
}
