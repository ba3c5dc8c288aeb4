package web

import (
	"fmt"
	"sort"
	"time"

	"shiftlog/attendance"
	"shiftlog/internal/timeutil"
	"shiftlog/output"
	"shiftlog/schedule"
)

type RecordRow struct {
	attendance.Record
	DayLabel string
	Part     string
	Rental   string
}

type BranchGroup struct {
	Branch string
	Rows   []RecordRow
}

type DashboardView struct {
	Title    string
	Period   output.Period
	Label    string
	From     string
	To       string
	Previous string
	Next     string
	Today    string
	Sort     output.SortKey

	TodayRows []RecordRow
	Groups    []BranchGroup
	Rows      []RecordRow
	Members   []output.MemberSummary

	TotalShifts   int
	TotalLate     int
	TotalOvertime int
	TotalWorked   int
}

var weekdayLabels = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// BuildDashboard collects everything the week and month pages show for the
// period containing day.
func BuildDashboard(records []attendance.Record, period output.Period, day, today time.Time, sortKey output.SortKey) DashboardView {
	from, to := output.PeriodRange(period, day)
	inPeriod := output.FilterRecords(records, from, to)

	view := DashboardView{
		Period:  period,
		From:    from.Format(timeutil.ISODate),
		To:      to.Format(timeutil.ISODate),
		Today:   today.Format(timeutil.ISODate),
		Sort:    sortKey,
		Members: output.BuildMemberSummaries(records, from, to),
		Groups:  groupByBranch(inPeriod),
	}

	switch period {
	case output.PeriodMonth:
		view.Label = from.Format("2006-01")
		view.Previous = "/month/" + from.AddDate(0, -1, 0).Format("2006-01")
		view.Next = "/month/" + from.AddDate(0, 1, 0).Format("2006-01")
	default:
		view.Label = fmt.Sprintf("%s ~ %s", view.From, view.To)
		view.Previous = "/week/" + from.AddDate(0, 0, -7).Format(timeutil.ISODate)
		view.Next = "/week/" + from.AddDate(0, 0, 7).Format(timeutil.ISODate)
	}
	view.Title = "shiftlog - " + string(period) + " " + view.Label

	for _, rec := range records {
		if rec.Date == view.Today {
			view.TodayRows = append(view.TodayRows, newRecordRow(rec))
		}
	}

	sorted := append([]attendance.Record(nil), inPeriod...)
	output.SortRecords(sorted, sortKey)
	view.Rows = make([]RecordRow, 0, len(sorted))
	for _, rec := range sorted {
		view.Rows = append(view.Rows, newRecordRow(rec))
	}

	for _, member := range view.Members {
		view.TotalShifts += member.Shifts
		view.TotalLate += member.LateMinutes
		view.TotalOvertime += member.OvertimeMinutes
		view.TotalWorked += member.WorkedMinutes
	}

	return view
}

// groupByBranch groups rows by branch name, branches and rows within a branch
// in date order.
func groupByBranch(records []attendance.Record) []BranchGroup {
	byBranch := make(map[string][]attendance.Record)
	for _, rec := range records {
		byBranch[rec.Branch] = append(byBranch[rec.Branch], rec)
	}

	branches := make([]string, 0, len(byBranch))
	for branch := range byBranch {
		branches = append(branches, branch)
	}
	sort.Strings(branches)

	groups := make([]BranchGroup, 0, len(branches))
	for _, branch := range branches {
		rows := byBranch[branch]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Date != rows[j].Date {
				return rows[i].Date < rows[j].Date
			}
			return clockBefore(rows[i].ScheduledIn, rows[j].ScheduledIn)
		})

		group := BranchGroup{Branch: branch, Rows: make([]RecordRow, 0, len(rows))}
		for _, rec := range rows {
			group.Rows = append(group.Rows, newRecordRow(rec))
		}
		groups = append(groups, group)
	}
	return groups
}

// clockBefore orders clock values by time of day. Values that do not parse
// sort after every parseable one.
func clockBefore(a, b string) bool {
	am, aok := timeutil.ParseClock(a)
	bm, bok := timeutil.ParseClock(b)
	switch {
	case aok && bok:
		return am < bm
	case aok != bok:
		return aok
	default:
		return a < b
	}
}

func newRecordRow(rec attendance.Record) RecordRow {
	row := RecordRow{Record: rec, DayLabel: dayLabel(rec.Date)}
	row.Part, _ = schedule.ExtractTag(rec.Memo, schedule.TagPart)
	row.Rental, _ = schedule.ExtractTag(rec.Memo, schedule.TagRental)
	return row
}

// dayLabel renders an ISO date as "3/4 (월)".
func dayLabel(value string) string {
	day, err := timeutil.ParseISODate(value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d/%d (%s)", int(day.Month()), day.Day(), weekdayLabels[day.Weekday()])
}
