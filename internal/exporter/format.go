package exporter

import (
	"math"
	"strconv"
)

// formatRatio formats a ratio for CSV output with up to 6 decimals. NaN is
// written as an empty cell.
func formatRatio(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(roundRatio(f), 'f', -1, 64)
}

// roundRatio rounds to 6 decimals so stored ratios stay readable.
func roundRatio(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Round(f*1e6) / 1e6
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
