// Package calories estimates energy expenditure from MET intensity values.
package calories

import (
	"math"
	"strings"
)

const (
	// DefaultMET is used when a body-part tag matches nothing in the table.
	DefaultMET = 3.5
	// DefaultBodyMassKg is used when no body mass is known for the user.
	DefaultBodyMassKg = 70.0
	// MaxDurationMinutes is the longest duration Estimate counts; longer ones are clamped.
	MaxDurationMinutes = 24 * 60
	// MaxBodyMassKg is the largest body mass Estimate counts; larger ones are clamped.
	MaxBodyMassKg = 500.0
)

type metEntry struct {
	Key string
	MET float64
}

// metTable is searched in order for substring matches, so multi-word keys come
// before the shorter keys they contain.
var metTable = []metEntry{
	{"full body", 5.0},
	{"upper body", 3.8},
	{"lower body", 4.0},
	{"chest", 3.5},
	{"back", 3.5},
	{"shoulders", 3.5},
	{"arms", 3.0},
	{"biceps", 3.0},
	{"triceps", 3.0},
	{"legs", 4.0},
	{"glutes", 4.0},
	{"core", 3.0},
	{"abs", 3.0},
	{"cardio", 7.0},
	{"hiit", 8.0},
	{"running", 8.0},
	{"cycling", 7.5},
	{"swimming", 6.0},
	{"rowing", 7.0},
	{"walking", 3.5},
	{"yoga", 2.5},
	{"stretching", 2.3},
}

// LookupMET resolves a body-part tag to a MET value: an exact case-insensitive
// match first, then the first table key contained in the tag, then DefaultMET.
func LookupMET(bodyPart string) float64 {
	tag := strings.ToLower(strings.TrimSpace(bodyPart))
	if tag == "" {
		return DefaultMET
	}
	for _, e := range metTable {
		if e.Key == tag {
			return e.MET
		}
	}
	for _, e := range metTable {
		if strings.Contains(tag, e.Key) {
			return e.MET
		}
	}
	return DefaultMET
}

// Estimate returns the rounded calories burned for durationMinutes of training
// the given body part. A non-positive bodyMassKg means DefaultBodyMassKg.
//
// Rounding is math.Round: halves round away from zero.
//
// Durations and masses above MaxDurationMinutes and MaxBodyMassKg are clamped,
// so the result is never negative and stays far below the int32 range.
func Estimate(bodyPart string, durationMinutes, bodyMassKg float64) int {
	if !(bodyMassKg > 0) {
		bodyMassKg = DefaultBodyMassKg
	}
	if !(durationMinutes > 0) {
		return 0
	}
	durationMinutes = math.Min(durationMinutes, MaxDurationMinutes)
	bodyMassKg = math.Min(bodyMassKg, MaxBodyMassKg)
	return int(math.Round(LookupMET(bodyPart) * bodyMassKg * (durationMinutes / 60)))
}

// Keys lists the table keys in lookup order.
func Keys() []string {
	keys := make([]string, len(metTable))
	for i, e := range metTable {
		keys[i] = e.Key
	}
	return keys
}
