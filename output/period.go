package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shiftlog/attendance"
	"shiftlog/internal/timeutil"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(value string) (Period, error) {
	switch Period(normalizeFormat(value)) {
	case PeriodWeek, "":
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unsupported period %q (supported: week, month)", value)
	}
}

// PeriodRange returns the first and last day of the period containing day.
// Weeks run Monday through Sunday.
func PeriodRange(period Period, day time.Time) (time.Time, time.Time) {
	if period == PeriodMonth {
		return timeutil.MonthRange(day)
	}
	return timeutil.WeekRange(day)
}

// FilterRecords keeps records dated within [from, to]. Records whose date does
// not parse are dropped.
func FilterRecords(records []attendance.Record, from, to time.Time) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		day, err := timeutil.ParseISODate(rec.Date)
		if err != nil {
			continue
		}
		if timeutil.InRange(day, from, to) {
			out = append(out, rec)
		}
	}
	return out
}

type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByLate     SortKey = "late"
	SortByOvertime SortKey = "overtime"
	SortByWork     SortKey = "work"
)

func ParseSortKey(value string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(strings.ToLower(value))); key {
	case "":
		return SortByDate, nil
	case SortByDate, SortByLate, SortByOvertime, SortByWork:
		return key, nil
	default:
		return "", fmt.Errorf("unsupported sort %q (supported: date, late, overtime, work)", value)
	}
}

// SortRecords orders records in place, largest first: by date, or by the
// lateness, overtime or worked minutes. Ties keep their input order.
func SortRecords(records []attendance.Record, key SortKey) {
	var field attendance.Field
	switch key {
	case SortByLate:
		field = attendance.FieldLateMinutes
	case SortByOvertime:
		field = attendance.FieldOvertimeMinutes
	case SortByWork:
		field = attendance.FieldWorkedMinutes
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date > records[j].Date
		})
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return safeNum(records[i].Get(field)) > safeNum(records[j].Get(field))
	})
}

// safeNum reads a derived minute field, counting anything unparseable as 0.
func safeNum(value string) int {
	n, ok := attendance.Minutes(value)
	if !ok {
		return 0
	}
	return n
}
