package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts is the accepted set of date spellings, tried in order. Indian
// documents overwhelmingly use DD/MM/YYYY; the rest cover scans that spell
// the month out or use ISO dates.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a date value against the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s", v)
}

// ParseAmount parses a monetary value after stripping currency symbols and
// digit grouping.
func ParseAmount(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	// "Rs." style prefixes leave a stray leading dot behind.
	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return 0, fmt.Errorf("invalid amount format: %s", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %s", s)
	}
	return v, nil
}
