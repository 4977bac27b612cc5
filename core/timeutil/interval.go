package timeutil

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open semantics: ranges that merely touch at an endpoint do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// GapMinutes returns the gap between an earlier range's end and a later
// range's start, in minutes. Negative when the two already overlap.
func GapMinutes(earlierEnd, laterStart time.Time) float64 {
	return laterStart.Sub(earlierEnd).Minutes()
}

// DurationHours returns the fractional hours between start and end.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Minutes converts a fractional minute count to a Duration.
func Minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
