// Package units provides shared constants, conversions and display
// formatting for speeds, distances and durations.
package units

import "strings"

// Unit constants
const (
	FPS  = "fps"
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// Conversion factors
const (
	FeetPerMeter = 3.280839895
	FeetPerMile  = 5280.0
	MPSToMPH     = 2.23694
	FPSToMPH     = 0.681818
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{FPS, MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 { return m * FeetPerMeter }

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 { return ft / FeetPerMeter }

// MPSToFPS converts meters per second to feet per second.
func MPSToFPS(v float64) float64 { return v * FeetPerMeter }

// MPHToFPS converts miles per hour to feet per second.
func MPHToFPS(v float64) float64 { return v / FPSToMPH }

// ConvertSpeed converts a speed from feet per second to the target units.
// Tracks carry speeds in ft/s.
func ConvertSpeed(speedFPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedFPS * FPSToMPH
	case MPS:
		return speedFPS / FeetPerMeter
	case KMPH, KPH:
		return speedFPS / FeetPerMeter * 3.6
	default:
		return speedFPS
	}
}
