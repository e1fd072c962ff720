package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedFPS float64
		units    string
		expected float64
	}{
		{"44 ft/s to mph", 44.0, MPH, 30.0},
		{"10 ft/s to mps", 10.0, MPS, 3.048},
		{"10 ft/s to kmph", 10.0, KMPH, 10.9728},
		{"10 ft/s to kph", 10.0, KPH, 10.9728},
		{"fps passthrough", 10.0, FPS, 10.0},
		{"unknown units default to fps", 10.0, "unknown", 10.0},
		{"0 ft/s to mph", 0.0, MPH, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedFPS, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedFPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%q) = false, want true", u)
		}
	}
	for _, u := range []string{"", "MPH", "knots"} {
		if IsValid(u) {
			t.Errorf("IsValid(%q) = true, want false", u)
		}
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "fps, mps, mph, kmph, kph" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}

func TestDistanceConversions(t *testing.T) {
	if got := MetersToFeet(1); math.Abs(got-3.28084) > 1e-5 {
		t.Errorf("MetersToFeet(1) = %f", got)
	}
	if got := FeetToMeters(MetersToFeet(123.4)); math.Abs(got-123.4) > 1e-10 {
		t.Errorf("round trip = %f", got)
	}
	if got := MPHToFPS(30); math.Abs(got-44.0) > 0.001 {
		t.Errorf("MPHToFPS(30) = %f", got)
	}
	if got := MPSToFPS(1); math.Abs(got-FeetPerMeter) > 1e-10 {
		t.Errorf("MPSToFPS(1) = %f", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{50, "50 seconds"},
		{12.5, "12.5 seconds"},
		{125.8, "02:05.80 (MM:SS.ss)"},
		{3661.2, "01:01:01.20 (HH:MM:SS.ss)"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.sec); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		ft   float64
		want string
	}{
		{215, "215 feet"},
		{1072.456, "1072.46 feet"},
		{5280, "1 miles"},
		{7920, "1.5 miles"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.ft); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.ft, got, tt.want)
		}
	}
}
