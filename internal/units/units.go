// Package units provides shared constants and conversions for energy units.
// Kinematics are held in MeV throughout; configs and tables use GeV.
package units

import "strings"

// Unit constants
const (
	MeV = "MeV"
	GeV = "GeV"
	TeV = "TeV"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MeV, GeV, TeV}

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

func scale(unit string) float64 {
	switch unit {
	case GeV:
		return 1e3
	case TeV:
		return 1e6
	default:
		return 1
	}
}

// FromMeV converts an energy in MeV to the target units.
// Unknown units are treated as MeV.
func FromMeV(mev float64, targetUnits string) float64 {
	return mev / scale(targetUnits)
}

// ToMeV converts an energy in the given units to MeV.
func ToMeV(v float64, units string) float64 {
	return v * scale(units)
}
