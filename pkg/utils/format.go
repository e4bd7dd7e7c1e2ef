// Package utils provides small shared helpers: human-readable distance
// and duration formatting and entity ID generation.
package utils

import (
	"fmt"
	"math"
)

// FormatDistanceKm renders a distance in kilometers as a compact human
// string: "320m" under one kilometer, "1.4km" above.
func FormatDistanceKm(km float64) string {
	meters := km * 1000
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1fkm", math.Round(km*10)/10)
}

// FormatDuration renders a duration in seconds as "45 sec", "12 min" or
// "1h 30m".
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d sec", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%d min", int(seconds/60))
	default:
		hours := int(seconds / 3600)
		mins := int(math.Mod(seconds, 3600) / 60)
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

// RoundCents rounds a dollar amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
