package attendance

import (
	"strings"
	"testing"
)

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Field
		wantErr bool
	}{
		{input: "actual_in", want: FieldActualIn},
		{input: "actual-out", want: FieldActualOut},
		{input: "ScheduledIn", want: FieldScheduledIn},
		{input: " memo ", want: FieldMemo},
		{input: "salary", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseField(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseField(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRecord_SetGetAndValues(t *testing.T) {
	t.Parallel()

	rec := New("2024-01-01", "HQ", "Alice", "10")
	rec.Set(FieldMemo, "rental 3pm")
	rec.Set(Field("unknown"), "ignored")

	if rec.Get(FieldMemo) != "rental 3pm" {
		t.Fatalf("unexpected memo %q", rec.Get(FieldMemo))
	}
	values := rec.Values()
	if len(values) != len(Columns) {
		t.Fatalf("expected %d values, got %d", len(Columns), len(values))
	}
	if values[0] != "2024-01-01" || values[1] != "HQ" || values[2] != "Alice" || values[3] != "10" {
		t.Fatalf("unexpected values order: %v", values)
	}
	if len(Headers()) != len(values) {
		t.Fatalf("headers and values must align")
	}
}

func TestApplyPatchAndDiff(t *testing.T) {
	t.Parallel()

	base := New("2024-01-01", "HQ", "Alice", "10")
	patched := ApplyPatch(base, Patch{FieldActualIn: "10:05", FieldMemo: "note"})
	if patched.ActualIn != "10:05" || patched.Memo != "note" {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if base.ActualIn != "" {
		t.Fatalf("patch must not mutate the input record")
	}

	diff := Diff(base, patched)
	if len(diff) != 2 || diff[FieldActualIn] != "10:05" || diff[FieldMemo] != "note" {
		t.Fatalf("unexpected diff: %v", diff)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(New("2024-01-01", "HQ", "Alice", "")); err != nil {
		t.Fatalf("expected valid record: %v", err)
	}

	err := Validate(New("01.01.2024", "HQ", "Alice", ""))
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected date validation error, got %v", err)
	}

	if err := Validate(New("2024-01-01", "", "Alice", "")); err == nil {
		t.Fatalf("expected missing branch to fail")
	}
}

func TestValidate_MinuteFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		value string
		ok    bool
	}{
		{name: "empty late", field: FieldLateMinutes, value: "", ok: true},
		{name: "zero overtime", field: FieldOvertimeMinutes, value: "0", ok: true},
		{name: "worked", field: FieldWorkedMinutes, value: "480", ok: true},
		{name: "negative late", field: FieldLateMinutes, value: "-5", ok: false},
		{name: "text worked", field: FieldWorkedMinutes, value: "abc", ok: false},
		{name: "fractional overtime", field: FieldOvertimeMinutes, value: "1.5", ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := New("2024-01-01", "HQ", "Alice", "")
			rec.Set(tc.field, tc.value)
			err := Validate(rec)
			if tc.ok && err != nil {
				t.Fatalf("expected %s=%q to pass, got %v", tc.field, tc.value, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected %s=%q to fail", tc.field, tc.value)
			}
		})
	}
}

func TestFieldForHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   Field
		wantOK bool
	}{
		{header: "Date", want: FieldDate, wantOK: true},
		{header: " scheduled_in ", want: FieldScheduledIn, wantOK: true},
		{header: "Scheduled-Check-In", want: FieldScheduledIn, wantOK: true},
		{header: "지점", want: FieldBranch, wantOK: true},
		{header: "총 근무시간(분)", want: FieldWorkedMinutes, wantOK: true},
		{header: "지각(분)", want: FieldLateMinutes, wantOK: true},
		{header: "note", want: FieldMemo, wantOK: true},
		{header: "_rowNumber"},
		{header: ""},
	}

	for _, tc := range tests {
		got, ok := FieldForHeader(tc.header)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("FieldForHeader(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.wantOK)
		}
	}
}
