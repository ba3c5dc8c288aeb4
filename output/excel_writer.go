package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shiftlog/attendance"
)

// ExcelWriter writes one worksheet. Sheet defaults to "Attendance_Logs", the
// layout the sheet store and the importer read back.
type ExcelWriter struct {
	Sheet string
}

func (w *ExcelWriter) Write(path string, records []attendance.Record) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Values())
	}
	sheet := w.Sheet
	if sheet == "" {
		sheet = "Attendance_Logs"
	}
	return writeExcel(path, sheet, attendance.Headers(), rows)
}

func writeExcel(path, sheet string, headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name excel sheet %s: %w", sheet, err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
