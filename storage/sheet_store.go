package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"shiftlog/attendance"
)

// SheetStore keeps records in one worksheet of an .xlsx workbook. Row 1 holds
// the headers and a record's id is its worksheet row number, so ids of later
// rows shift down by one after a delete.
//
// Every operation opens the workbook, applies its change and saves it through
// a temporary file; a failed operation leaves the workbook on disk untouched.
type SheetStore struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func OpenSheet(path, sheet string) (*SheetStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sheet store path is required")
	}
	if strings.TrimSpace(sheet) == "" {
		return nil, fmt.Errorf("sheet name is required")
	}

	store := &SheetStore{path: path, sheet: sheet}
	if err := store.withWorkbook(false, func(*workbook) error { return nil }); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SheetStore) Close() error {
	return nil
}

type workbook struct {
	file    *excelize.File
	sheet   string
	rows    [][]string
	columns map[attendance.Field]int
}

// withWorkbook runs fn against a freshly opened workbook and saves it when
// save is true and fn succeeded.
func (s *SheetStore) withWorkbook(save bool, fn func(*workbook) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.openFile()
	if err != nil {
		return err
	}
	defer file.Close()

	wb, created, err := loadWorkbook(file, s.sheet)
	if err != nil {
		return err
	}
	if err := fn(wb); err != nil {
		return err
	}
	if !save && !created {
		return nil
	}
	return s.saveFile(file)
}

func (s *SheetStore) openFile() (*excelize.File, error) {
	file, err := excelize.OpenFile(s.path)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}

	file = excelize.NewFile()
	if err := file.SetSheetName(file.GetSheetName(0), s.sheet); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("name sheet %s: %w", s.sheet, err)
	}
	return file, nil
}

func (s *SheetStore) saveFile(file *excelize.File) error {
	tmp := filepath.Join(filepath.Dir(s.path), "."+filepath.Base(s.path)+".tmp.xlsx")
	if err := file.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook %s: %w", s.path, err)
	}
	return nil
}

// loadWorkbook reads the sheet and resolves its header row. A missing sheet or
// header is created; created reports whether the workbook changed.
func loadWorkbook(file *excelize.File, sheet string) (*workbook, bool, error) {
	created := false
	index, err := file.GetSheetIndex(sheet)
	if err != nil {
		return nil, false, fmt.Errorf("look up sheet %s: %w", sheet, err)
	}
	if index < 0 {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, false, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		created = true
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, false, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}

	wb := &workbook{file: file, sheet: sheet, rows: rows, columns: make(map[attendance.Field]int)}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	for col, value := range header {
		if field, ok := attendance.FieldForHeader(value); ok {
			if _, exists := wb.columns[field]; !exists {
				wb.columns[field] = col + 1
			}
		}
	}

	next := len(header) + 1
	for _, col := range attendance.Columns {
		if _, ok := wb.columns[col.Field]; ok {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(next, 1)
		if err := file.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, false, fmt.Errorf("set header %s: %w", cell, err)
		}
		wb.columns[col.Field] = next
		next++
		created = true
	}
	if len(wb.rows) == 0 {
		wb.rows = [][]string{attendance.Headers()}
	}

	return wb, created, nil
}

func (wb *workbook) record(row int) (attendance.Record, bool) {
	if row < 2 || row > len(wb.rows) {
		return attendance.Record{}, false
	}
	cells := wb.rows[row-1]
	rec := attendance.Record{ID: int64(row)}
	empty := true
	for field, col := range wb.columns {
		if col-1 < len(cells) {
			value := strings.TrimSpace(cells[col-1])
			rec.Set(field, value)
			if value != "" {
				empty = false
			}
		}
	}
	return rec, !empty
}

func (wb *workbook) writeRow(row int, rec attendance.Record) error {
	for field, col := range wb.columns {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if err := wb.file.SetCellValue(wb.sheet, cell, rec.Get(field)); err != nil {
			return fmt.Errorf("set value %s: %w", cell, err)
		}
	}
	return nil
}

func (wb *workbook) appendRecord(rec attendance.Record) (int64, error) {
	row := len(wb.rows) + 1
	if err := wb.writeRow(row, rec); err != nil {
		return 0, err
	}
	wb.rows = append(wb.rows, rec.Values())
	return int64(row), nil
}

func (s *SheetStore) ListRecords() ([]attendance.Record, error) {
	var records []attendance.Record
	err := s.withWorkbook(false, func(wb *workbook) error {
		records = make([]attendance.Record, 0, len(wb.rows))
		for row := 2; row <= len(wb.rows); row++ {
			if rec, ok := wb.record(row); ok {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

func (s *SheetStore) GetRecord(id int64) (attendance.Record, error) {
	var rec attendance.Record
	err := s.withWorkbook(false, func(wb *workbook) error {
		found, ok := wb.record(int(id))
		if !ok {
			return ErrRecordNotFound
		}
		rec = found
		return nil
	})
	return rec, err
}

func (s *SheetStore) InsertRecord(rec attendance.Record) (int64, error) {
	ids, err := s.InsertRecords([]attendance.Record{rec})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *SheetStore) InsertRecords(recs []attendance.Record) ([]int64, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(recs))
	err := s.withWorkbook(true, func(wb *workbook) error {
		for i, rec := range recs {
			id, err := wb.appendRecord(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SheetStore) UpdateRecord(id int64, patch attendance.Patch) (attendance.Record, error) {
	return s.update(id, nil, patch)
}

// UpdateRecordIf guards against row ids that moved because a row above was
// deleted after expected was read.
func (s *SheetStore) UpdateRecordIf(id int64, expected attendance.Record, patch attendance.Patch) (attendance.Record, error) {
	return s.update(id, &expected, patch)
}

func (s *SheetStore) update(id int64, expected *attendance.Record, patch attendance.Patch) (attendance.Record, error) {
	if err := validatePatch(patch); err != nil {
		return attendance.Record{}, err
	}

	var updated attendance.Record
	err := s.withWorkbook(true, func(wb *workbook) error {
		current, ok := wb.record(int(id))
		if !ok {
			return ErrRecordNotFound
		}
		if expected != nil && current != *expected {
			return ErrRecordChanged
		}
		updated = attendance.ApplyPatch(current, patch)
		return wb.writeRow(int(id), updated)
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return updated, nil
}

func (s *SheetStore) DeleteRecord(id int64) error {
	return s.withWorkbook(true, func(wb *workbook) error {
		if _, ok := wb.record(int(id)); !ok {
			return ErrRecordNotFound
		}
		if err := wb.file.RemoveRow(wb.sheet, int(id)); err != nil {
			return fmt.Errorf("delete row %d: %w", id, err)
		}
		return nil
	})
}
