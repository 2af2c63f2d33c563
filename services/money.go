package services

import (
	"strconv"
	"strings"
)

// ParseMoney parses a free-form currency string like "$1,234,567", "$1.2M" or
// "650K" into a dollar amount. It returns nil for empty input, the usual
// "Not Disclosed" / "N/A" placeholders, and anything that is not a number
// once separators, the dollar sign and a trailing M/K magnitude are removed.
func ParseMoney(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "", "not disclosed", "n/a":
		return nil
	}

	cleaned := strings.ReplaceAll(trimmed, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	lower := strings.ToLower(strings.TrimSpace(cleaned))

	// Magnitude suffixes. Any "m" in the remainder is treated as a million
	// marker as long as stripping it leaves a valid number; same for "k".
	if strings.Contains(lower, "m") {
		return scaled(strings.ReplaceAll(lower, "m", ""), 1_000_000)
	}
	if strings.Contains(lower, "k") {
		return scaled(strings.ReplaceAll(lower, "k", ""), 1_000)
	}

	v, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return nil
	}
	return &v
}

func scaled(numeric string, factor float64) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(numeric), 64)
	if err != nil {
		return nil
	}
	v *= factor
	return &v
}

// FormatMoney renders a dollar amount in the compact digest style:
// $1.2M, $650K, $900.
func FormatMoney(n *float64) string {
	if n == nil {
		return "N/A"
	}
	v := *n
	switch {
	case v >= 1_000_000:
		return "$" + strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "M"
	case v >= 1_000:
		return "$" + strconv.FormatFloat(v/1_000, 'f', 0, 64) + "K"
	default:
		return "$" + strconv.FormatFloat(v, 'f', 0, 64)
	}
}
