package importer

import (
	"fmt"
	"strconv"

	"shiftlog/attendance"
)

// Mapper turns one tabular row into an attendance record. ok is false for rows
// that carry no shift.
type Mapper interface {
	Name() string
	Map(record Record) (rec attendance.Record, ok bool, err error)
}

// SheetMapper reads rows laid out like the attendance sheet itself, with
// canonical or alias headers.
type SheetMapper struct{}

func (m *SheetMapper) Name() string {
	return "sheet"
}

func (m *SheetMapper) Map(record Record) (attendance.Record, bool, error) {
	if record.empty() {
		return attendance.Record{}, false, nil
	}

	var rec attendance.Record
	for _, col := range attendance.Columns {
		rec.Set(col.Field, record.Field(col))
	}
	if rec.Name == "" || rec.Date == "" {
		return attendance.Record{}, false, nil
	}

	date, err := parseDate(rec.Date)
	if err != nil {
		return attendance.Record{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	rec.Date = date

	for _, field := range []attendance.Field{
		attendance.FieldScheduledIn,
		attendance.FieldActualIn,
		attendance.FieldScheduledOut,
		attendance.FieldActualOut,
	} {
		rec.Set(field, normalizeClock(rec.Get(field)))
	}

	for _, field := range attendance.DerivedFields {
		raw := rec.Get(field)
		if raw == "" {
			continue
		}
		minutes, err := parseMinutes(raw)
		if err != nil {
			return attendance.Record{}, false, fmt.Errorf("row %d %s: %w", record.RowNumber, field, err)
		}
		rec.Set(field, strconv.Itoa(minutes))
	}

	rec = attendance.FillDerived(rec)
	if err := attendance.Validate(rec); err != nil {
		return attendance.Record{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	return rec, true, nil
}
