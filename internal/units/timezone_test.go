package units

import (
	"math"
	"testing"
	"time"
)

func TestIsTimezoneValid(t *testing.T) {
	tests := []struct {
		tz   string
		want bool
	}{
		{"UTC", true},
		{"America/Los_Angeles", true},
		{"", false},
		{"Not/AZone", false},
	}
	for _, tt := range tests {
		if got := IsTimezoneValid(tt.tz); got != tt.want {
			t.Errorf("IsTimezoneValid(%q) = %v, want %v", tt.tz, got, tt.want)
		}
	}
}

func TestConvertTime(t *testing.T) {
	utc := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	got, err := ConvertTime(utc, "UTC")
	if err != nil || !got.Equal(utc) {
		t.Fatalf("ConvertTime(UTC) = %v, %v", got, err)
	}

	got, err = ConvertTime(utc, "America/New_York")
	if err != nil {
		t.Fatalf("ConvertTime(New_York) error: %v", err)
	}
	if got.Hour() != 15 {
		t.Errorf("expected 15:00 local, got %v", got)
	}

	if _, err := ConvertTime(utc, "Invalid/Zone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestEpochRoundTrip(t *testing.T) {
	ts := 1735689600.125
	got := TimeToEpoch(EpochToTime(ts))
	if math.Abs(got-ts) > 1e-6 {
		t.Errorf("round trip = %f, want %f", got, ts)
	}
	if EpochToTime(ts).Location() != time.UTC {
		t.Error("EpochToTime should return UTC")
	}
}
