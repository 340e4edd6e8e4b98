package units

import (
	"math"
	"testing"
)

func TestFromMeV(t *testing.T) {
	tests := []struct {
		name     string
		mev      float64
		units    string
		expected float64
	}{
		{"20 GeV jet threshold", 20000, GeV, 20},
		{"MeV unchanged", 1234.5, MeV, 1234.5},
		{"1.5 TeV", 1.5e6, TeV, 1.5},
		{"unknown units default to MeV", 42, "eV", 42},
		{"zero", 0, GeV, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromMeV(tt.mev, tt.units)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("FromMeV(%f, %s) = %f, want %f", tt.mev, tt.units, result, tt.expected)
			}
		})
	}
}

func TestToMeV_RoundTrip(t *testing.T) {
	for _, u := range ValidUnits {
		got := FromMeV(ToMeV(3.25, u), u)
		if math.Abs(got-3.25) > 1e-12 {
			t.Errorf("round trip through %s gave %f", u, got)
		}
	}
	if ToMeV(40, GeV) != 40000 {
		t.Errorf("ToMeV(40, GeV) = %f", ToMeV(40, GeV))
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		unit     string
		expected bool
	}{
		{MeV, true},
		{GeV, true},
		{TeV, true},
		{"gev", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.unit); got != tt.expected {
			t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
		}
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "MeV, GeV, TeV" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}
