package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ISODate = "2006-01-02"

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?$`)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseClock converts an "H", "HH" or "HH:MM" token to minutes since midnight.
// Out-of-range values such as "25:99" are reported as not parseable.
func ParseClock(value string) (int, bool) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(match[1])
	if err != nil || hour > 23 {
		return 0, false
	}
	minute := 0
	if match[2] != "" {
		minute, err = strconv.Atoi(match[2])
		if err != nil || minute > 59 {
			return 0, false
		}
	}
	return hour*60 + minute, true
}

func IsTimeToken(value string) bool {
	_, ok := ParseClock(value)
	return ok
}

func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func ParseISODate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(ISODate, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(parsed), nil
}

// WeekRange returns Monday and Sunday of the week containing day.
func WeekRange(day time.Time) (time.Time, time.Time) {
	day = StartOfDay(day)
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

func MonthRange(day time.Time) (time.Time, time.Time) {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

// InRange reports whether day falls within [from, to], compared by calendar date.
func InRange(day, from, to time.Time) bool {
	day = StartOfDay(day)
	return !day.Before(StartOfDay(from)) && !day.After(StartOfDay(to))
}
