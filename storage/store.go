package storage

import (
	"errors"
	"fmt"
	"sort"

	"shiftlog/attendance"
	"shiftlog/config"
)

var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrRecordChanged  = errors.New("attendance record changed since it was read")
)

// Store is the tabular datastore behind the CLI and the HTTP surface. Row ids
// are assigned by the store and are opaque to callers.
type Store interface {
	ListRecords() ([]attendance.Record, error)
	GetRecord(id int64) (attendance.Record, error)
	InsertRecord(rec attendance.Record) (int64, error)
	// InsertRecords persists all records or none of them.
	InsertRecords(recs []attendance.Record) ([]int64, error)
	UpdateRecord(id int64, patch attendance.Patch) (attendance.Record, error)
	// UpdateRecordIf applies patch only while the stored row still equals
	// expected and fails with ErrRecordChanged otherwise.
	UpdateRecordIf(id int64, expected attendance.Record, patch attendance.Patch) (attendance.Record, error)
	DeleteRecord(id int64) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(cfg.Path)
	case config.BackendSheet:
		return OpenSheet(cfg.Path, cfg.Sheet)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// sortRecords orders by date descending, then by id.
func sortRecords(records []attendance.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ID < records[j].ID
	})
}

func validatePatch(patch attendance.Patch) error {
	for field := range patch {
		if _, err := attendance.ParseField(string(field)); err != nil {
			return fmt.Errorf("invalid patch: %w", err)
		}
	}
	return nil
}
