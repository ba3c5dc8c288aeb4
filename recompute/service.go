package recompute

import (
	"fmt"
	"sort"

	"shiftlog/attendance"
	"shiftlog/storage"
)

type Result struct {
	DaysProcessed  int
	RecordsChecked int
	RecordsUpdated int
}

type update struct {
	record attendance.Record
	patch  attendance.Patch
}

// Run re-derives lateness, overtime and worked minutes of every stored record
// and writes back only the derived fields that changed.
func Run(store storage.Store) (*Result, error) {
	records, err := store.ListRecords()
	if err != nil {
		return nil, err
	}

	result := &Result{RecordsChecked: len(records)}
	if len(records) == 0 {
		return result, nil
	}
	result.DaysProcessed = countDays(records)

	for _, u := range planUpdates(records) {
		if _, err := store.UpdateRecordIf(u.record.ID, u.record, u.patch); err != nil {
			return result, fmt.Errorf("persist recomputed record %d: %w", u.record.ID, err)
		}
		result.RecordsUpdated++
	}

	return result, nil
}

// planUpdates lists the derived-field patches needed, ordered by record id.
func planUpdates(records []attendance.Record) []update {
	updates := make([]update, 0, 64)
	for _, rec := range records {
		patch := attendance.Diff(rec, attendance.RecomputeAll(rec))
		if len(patch) == 0 {
			continue
		}
		updates = append(updates, update{record: rec, patch: patch})
	}
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].record.ID < updates[j].record.ID
	})
	return updates
}

func countDays(records []attendance.Record) int {
	days := make(map[string]struct{}, len(records))
	for _, rec := range records {
		days[rec.Date] = struct{}{}
	}
	return len(days)
}
