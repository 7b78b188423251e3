package calories

import (
	"math"
	"testing"
)

// TestLookupMET covers exact, case-insensitive, substring and fallback lookups.
func TestLookupMET(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want float64
	}{
		{"exact", "chest", 3.5},
		{"exact legs", "legs", 4.0},
		{"upper case", "RUNNING", 8.0},
		{"surrounding space", "  cardio ", 7.0},
		{"substring", "upper legs", 4.0},
		{"substring picks first key", "full body legs", 5.0},
		{"unknown", "unknown_tag", DefaultMET},
		{"empty", "", DefaultMET},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LookupMET(tt.tag); got != tt.want {
				t.Errorf("LookupMET(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

// TestEstimate checks the rounded MET * mass * hours formula.
func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		bodyPart string
		minutes  float64
		massKg   float64
		want     int
	}{
		{"chest half hour", "chest", 30, 70, 123},
		{"unknown hour", "unknown_tag", 60, 70, 245},
		{"legs three minutes", "legs", 3, 70, 14},
		{"running heavier", "running", 45, 80, 480},
		{"zero mass uses default", "chest", 30, 0, 123},
		{"zero duration", "chest", 0, 70, 0},
		{"fractional minutes", "legs", 2.5, 70, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.bodyPart, tt.minutes, tt.massKg); got != tt.want {
				t.Errorf("Estimate(%q, %v, %v) = %d, want %d", tt.bodyPart, tt.minutes, tt.massKg, got, tt.want)
			}
		})
	}
}

// TestEstimateDeterministic verifies repeated calls agree.
func TestEstimateDeterministic(t *testing.T) {
	first := Estimate("shoulders", 37.25, 82.3)
	for range 10 {
		if got := Estimate("shoulders", 37.25, 82.3); got != first {
			t.Fatalf("Estimate changed between calls: %d then %d", first, got)
		}
	}
}

// TestKeysOrder verifies multi-word keys are searched before the words they contain.
func TestKeysOrder(t *testing.T) {
	keys := Keys()
	if keys[0] != "full body" {
		t.Errorf("first key = %q, want full body", keys[0])
	}
	if len(keys) != len(metTable) {
		t.Errorf("len(Keys()) = %d, want %d", len(keys), len(metTable))
	}
}

// TestEstimateBounds verifies out-of-range inputs clamp instead of wrapping.
func TestEstimateBounds(t *testing.T) {
	// hiit is the highest MET in the table.
	ceiling := int(math.Round(8.0 * MaxBodyMassKg * MaxDurationMinutes / 60))
	tests := []struct {
		name    string
		minutes float64
		massKg  float64
		want    int
	}{
		{"huge duration", 1e300, 70, int(math.Round(3.5 * 70 * 24))},
		{"infinite duration", math.Inf(1), 70, int(math.Round(3.5 * 70 * 24))},
		{"nan duration", math.NaN(), 70, 0},
		{"huge mass", 60, 1e300, int(math.Round(3.5 * MaxBodyMassKg))},
		{"nan mass", 60, math.NaN(), int(math.Round(3.5 * DefaultBodyMassKg))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate("chest", tt.minutes, tt.massKg)
			if got != tt.want {
				t.Errorf("Estimate = %d, want %d", got, tt.want)
			}
			if got < 0 || got > ceiling {
				t.Errorf("Estimate = %d outside [0, %d]", got, ceiling)
			}
		})
	}
}
