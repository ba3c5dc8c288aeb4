package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"shiftlog/internal/timeutil"
)

// parseDate accepts the date layouts spreadsheet exports commonly produce and
// returns an ISO date.
func parseDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}
	value = strings.TrimSuffix(value, ".")

	layouts := []string{
		timeutil.ISODate,
		"2006.01.02",
		"2006. 1. 2",
		"2006/01/02",
		"2006/1/2",
		"01-02-06",
		"1/2/2006",
		time.RFC3339,
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed.Format(timeutil.ISODate), nil
		}
	}

	return "", fmt.Errorf("unsupported date format: %q", raw)
}

// normalizeClock rewrites spreadsheet time renderings such as "10:00:00" or
// "2:30 PM" to "HH:MM". Values that are already clock tokens, or that no
// layout matches, are returned trimmed and otherwise unchanged.
func normalizeClock(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || timeutil.IsTimeToken(value) {
		return value
	}

	layouts := []string{
		"15:04:05",
		"3:04 PM",
		"3:04:05 PM",
		"3PM",
		"3 PM",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, strings.ToUpper(value)); err == nil {
			return parsed.Format("15:04")
		}
	}
	return value
}

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return rounded, nil
}
