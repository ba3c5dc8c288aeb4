package attendance

import (
	"strconv"

	"shiftlog/internal/timeutil"
)

// Recompute re-derives the minute fields that depend on changed. A derived
// field is set only when both of its inputs parse as clock times and is
// cleared otherwise. Differences below zero clamp to zero.
func Recompute(rec Record, changed Field) Record {
	switch changed {
	case FieldScheduledIn:
		rec.LateMinutes = diffMinutes(rec.ScheduledIn, rec.ActualIn)
	case FieldActualIn:
		rec.LateMinutes = diffMinutes(rec.ScheduledIn, rec.ActualIn)
		rec.WorkedMinutes = diffMinutes(rec.ActualIn, rec.ActualOut)
	case FieldScheduledOut:
		rec.OvertimeMinutes = diffMinutes(rec.ScheduledOut, rec.ActualOut)
	case FieldActualOut:
		rec.OvertimeMinutes = diffMinutes(rec.ScheduledOut, rec.ActualOut)
		rec.WorkedMinutes = diffMinutes(rec.ActualIn, rec.ActualOut)
	}
	return rec
}

// Edit sets field to value and re-derives the dependent fields.
func Edit(rec Record, field Field, value string) Record {
	rec.Set(field, value)
	return Recompute(rec, field)
}

// ApplyEdits applies several field edits at once. Plain fields are set first,
// then every clock edit goes through Edit in column order, so the derived
// fields reflect all of the new clock values.
func ApplyEdits(rec Record, edits Patch) Record {
	for _, col := range Columns {
		if value, ok := edits[col.Field]; ok && !IsTimeField(col.Field) {
			rec.Set(col.Field, value)
		}
	}
	for _, col := range Columns {
		if value, ok := edits[col.Field]; ok && IsTimeField(col.Field) {
			rec = Edit(rec, col.Field, value)
		}
	}
	return rec
}

// RecomputeAll re-derives lateness, overtime and worked minutes.
func RecomputeAll(rec Record) Record {
	rec = Recompute(rec, FieldActualIn)
	return Recompute(rec, FieldActualOut)
}

// FillDerived derives only the minute fields that are still empty, keeping
// values that came from the source.
func FillDerived(rec Record) Record {
	derived := RecomputeAll(rec)
	for _, field := range DerivedFields {
		if rec.Get(field) == "" {
			rec.Set(field, derived.Get(field))
		}
	}
	return rec
}

// DerivedFields are computed from the clock fields.
var DerivedFields = []Field{FieldLateMinutes, FieldOvertimeMinutes, FieldWorkedMinutes}

// IsTimeField reports whether edits to field can change a derived value.
func IsTimeField(field Field) bool {
	switch field {
	case FieldScheduledIn, FieldActualIn, FieldScheduledOut, FieldActualOut:
		return true
	default:
		return false
	}
}

// Minutes parses a derived minute field. Empty or malformed values yield false.
func Minutes(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func diffMinutes(from, to string) string {
	start, ok := timeutil.ParseClock(from)
	if !ok {
		return ""
	}
	end, ok := timeutil.ParseClock(to)
	if !ok {
		return ""
	}
	return strconv.Itoa(max(0, end-start))
}
