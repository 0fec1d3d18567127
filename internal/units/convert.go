// Package units converts Withings wire measurements into the display units
// used by the storage schema. Withings encodes every measurement as a pair of
// integers (value, unit) where the real value is value * 10^unit; distances
// and masses arrive in SI units and are stored in US units. All functions
// here are pure.
package units

import "math"

const (
	lbsPerKg      = 2.20462
	metersPerMile = 1609.344
	feetPerMeter  = 3.28084
)

// Decode resolves the scaled-integer encoding: value * 10^exp.
func Decode(value int64, exp int) float64 {
	return float64(value) * math.Pow(10, float64(exp))
}

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 { return kg * lbsPerKg }

// MetersToMiles converts meters to miles.
func MetersToMiles(m float64) float64 { return m / metersPerMile }

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 { return m * feetPerMeter }

// SecondsToMinutes floors a duration in seconds to whole minutes.
// Fractional minutes are discarded, not rounded.
func SecondsToMinutes(sec int) int { return sec / 60 }
