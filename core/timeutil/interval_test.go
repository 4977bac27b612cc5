package timeutil

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
		{"partial", at(9, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"touching endpoints", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching reversed", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			if got != tc.want {
				t.Errorf("Overlaps(%v,%v,%v,%v) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Symmetric by definition.
			if sym := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); sym != got {
				t.Errorf("overlap not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestGapMinutes(t *testing.T) {
	if got := GapMinutes(at(10, 0), at(10, 10)); got != 10 {
		t.Errorf("gap = %v, want 10", got)
	}
	if got := GapMinutes(at(14, 0), at(13, 30)); got != -30 {
		t.Errorf("overlapping gap = %v, want -30", got)
	}
	if got := GapMinutes(at(10, 0), at(10, 0)); got != 0 {
		t.Errorf("touching gap = %v, want 0", got)
	}
}

func TestDurationHours(t *testing.T) {
	if got := DurationHours(at(9, 0), at(12, 30)); got != 3.5 {
		t.Errorf("duration = %v, want 3.5", got)
	}
}
