package recompute

import (
	"path/filepath"
	"testing"

	"shiftlog/attendance"
	"shiftlog/storage"
)

func TestPlanUpdates_OnlyDerivedFieldsThatChanged(t *testing.T) {
	t.Parallel()

	records := []attendance.Record{
		{ID: 3, Date: "2024-03-04", Name: "Alice", ScheduledIn: "10", ActualIn: "10:20", LateMinutes: "20"},
		{ID: 1, Date: "2024-03-04", Name: "Bob", ScheduledIn: "10", ActualIn: "10:20", LateMinutes: "5"},
		{ID: 2, Date: "2024-03-05", Name: "Carol", ScheduledIn: "", ActualIn: "10:20", LateMinutes: "30"},
	}

	updates := planUpdates(records)
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %+v", updates)
	}
	if updates[0].record.ID != 1 || updates[0].patch[attendance.FieldLateMinutes] != "20" || len(updates[0].patch) != 1 {
		t.Fatalf("unexpected first update: %+v", updates[0])
	}
	if updates[1].record.ID != 2 {
		t.Fatalf("unexpected second update: %+v", updates[1])
	}
	if value, ok := updates[1].patch[attendance.FieldLateMinutes]; !ok || value != "" {
		t.Fatalf("expected lateness to be cleared, got %+v", updates[1].patch)
	}
}

func TestRun_PersistsRecomputedRows(t *testing.T) {
	t.Parallel()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "recompute.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	stale := attendance.New("2024-03-04", "HQ", "Alice", "10")
	stale.ActualIn = "10:15"
	stale.ActualOut = "18:15"
	stale.ScheduledOut = "18"
	fresh := attendance.RecomputeAll(attendance.Record{Date: "2024-03-05", Branch: "HQ", Name: "Bob", ScheduledIn: "9", ActualIn: "9:00"})

	ids, err := store.InsertRecords([]attendance.Record{stale, fresh})
	if err != nil {
		t.Fatalf("insert records: %v", err)
	}

	result, err := Run(store)
	if err != nil {
		t.Fatalf("run recompute: %v", err)
	}
	if result.RecordsChecked != 2 || result.RecordsUpdated != 1 || result.DaysProcessed != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := store.GetRecord(ids[0])
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.LateMinutes != "15" || got.OvertimeMinutes != "15" || got.WorkedMinutes != "480" {
		t.Fatalf("unexpected derived fields: %+v", got)
	}

	again, err := Run(store)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.RecordsUpdated != 0 {
		t.Fatalf("recompute must be idempotent, second run updated %d", again.RecordsUpdated)
	}
}
