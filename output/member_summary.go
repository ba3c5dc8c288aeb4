package output

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"shiftlog/attendance"
)

// MemberSummary aggregates one person's shifts over a period.
type MemberSummary struct {
	Name            string `json:"name"`
	Shifts          int    `json:"shifts"`
	LateShifts      int    `json:"lateShifts"`
	LateMinutes     int    `json:"lateMinutes"`
	OvertimeMinutes int    `json:"overtimeMinutes"`
	WorkedMinutes   int    `json:"workedMinutes"`
}

var memberSummaryHeaders = []string{"Name", "Shifts", "LateShifts", "LateMinutes", "OvertimeMinutes", "WorkedMinutes"}

// BuildMemberSummaries sums the records dated within [from, to] per person,
// sorted by name.
func BuildMemberSummaries(records []attendance.Record, from, to time.Time) []MemberSummary {
	byName := make(map[string]*MemberSummary)
	for _, rec := range FilterRecords(records, from, to) {
		summary, ok := byName[rec.Name]
		if !ok {
			summary = &MemberSummary{Name: rec.Name}
			byName[rec.Name] = summary
		}

		late := safeNum(rec.LateMinutes)
		summary.Shifts++
		summary.LateMinutes += late
		summary.OvertimeMinutes += safeNum(rec.OvertimeMinutes)
		summary.WorkedMinutes += safeNum(rec.WorkedMinutes)
		if late > 0 {
			summary.LateShifts++
		}
	}

	summaries := make([]MemberSummary, 0, len(byName))
	for _, summary := range byName {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

func (s MemberSummary) values() []string {
	return []string{
		s.Name,
		strconv.Itoa(s.Shifts),
		strconv.Itoa(s.LateShifts),
		strconv.Itoa(s.LateMinutes),
		strconv.Itoa(s.OvertimeMinutes),
		strconv.Itoa(s.WorkedMinutes),
	}
}

func WriteMemberSummaries(path, format string, summaries []MemberSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, summary.values())
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, memberSummaryHeaders, rows)
	case "excel", "xlsx":
		return writeExcel(path, "Member_Stats", memberSummaryHeaders, rows)
	default:
		return fmt.Errorf("unsupported output format for member summaries: %s", format)
	}
}
