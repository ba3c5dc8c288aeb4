package schedule

import (
	"testing"

	"shiftlog/attendance"
	"shiftlog/config"
)

func TestParse_SkipLinesOnly(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"스케줄 없음",
		"근무 - 없음\n휴무 - 인아\n연차- 진리",
		"no schedule\nwork - none\nOff - Alice\nleave -Bob",
	}
	for _, input := range inputs {
		if got := Parse(input, "2024-01-01"); len(got) != 0 {
			t.Fatalf("expected no records for %q, got %+v", input, got)
		}
	}
}

func TestParse_MainLine(t *testing.T) {
	t.Parallel()

	got := Parse("HQ 10 Alice 18", "2024-01-01")
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(got), got)
	}
	want := attendance.Record{Date: "2024-01-01", Branch: "HQ", Name: "Alice", ScheduledIn: "10"}
	if got[0] != want {
		t.Fatalf("unexpected record: %+v", got[0])
	}
}

func TestParse_TrailingCheckOutOption(t *testing.T) {
	t.Parallel()

	parser := NewParser(WithTrailingCheckOut(true))
	got := parser.Parse("HQ 10 Alice Bob 18 (14 Carol 22)", "2024-01-01")
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}
	for _, rec := range got[:2] {
		if rec.ScheduledIn != "10" || rec.ScheduledOut != "18" {
			t.Fatalf("unexpected main group times: %+v", rec)
		}
	}
	if got[2].Name != "Carol" || got[2].ScheduledIn != "14" || got[2].ScheduledOut != "22" {
		t.Fatalf("unexpected bracket group record: %+v", got[2])
	}
}

func TestParse_BracketGroupInheritsBranch(t *testing.T) {
	t.Parallel()

	got := Parse("HQ 10 (14 Bob Carol)", "2024-01-01")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(got), got)
	}
	for i, name := range []string{"Bob", "Carol"} {
		if got[i].Name != name || got[i].ScheduledIn != "14" || got[i].Branch != "HQ" || got[i].Date != "2024-01-01" {
			t.Fatalf("unexpected record %d: %+v", i, got[i])
		}
	}
}

func TestParse_MainGroupBeforeBracketGroups(t *testing.T) {
	t.Parallel()

	got := Parse("홍대 10 진리 18 (14 다빈 인아)", "2024-03-04")
	names := make([]string, 0, len(got))
	for _, rec := range got {
		names = append(names, rec.Name+"@"+rec.ScheduledIn)
	}
	want := []string{"진리@10", "다빈@14", "인아@14"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestParse_AnnotationLines(t *testing.T) {
	t.Parallel()

	text := "HQ 10 Alice Bob\n*rental 3pm\n*part: open\nEast 9 Carol\n*late key"
	got := Parse(text, "2024-01-01")
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for _, rec := range got[:2] {
		if rec.Memo != "rental 3pm / part: open" {
			t.Fatalf("unexpected memo for %s: %q", rec.Name, rec.Memo)
		}
	}
	if got[2].Memo != "late key" {
		t.Fatalf("annotation must attach to its own batch only, got %q", got[2].Memo)
	}
}

func TestParse_AnnotationAfterSkipLineKeepsBatch(t *testing.T) {
	t.Parallel()

	got := Parse("HQ 10 Alice\n휴무 - Bob\n*rental 3pm", "2024-01-01")
	if len(got) != 1 || got[0].Memo != "rental 3pm" {
		t.Fatalf("skip lines must not move the batch pointer: %+v", got)
	}
}

func TestParse_AnnotationAfterEmptyShiftLineAttachesNothing(t *testing.T) {
	t.Parallel()

	got := Parse("HQ 10 Alice\nnotes about the day\n*rental 3pm", "2024-01-01")
	if len(got) != 1 || got[0].Memo != "" {
		t.Fatalf("annotation after a recordless shift line must not attach: %+v", got)
	}
}

func TestParse_AnnotationBeforeAnyShift(t *testing.T) {
	t.Parallel()

	got := Parse("*rental 3pm\nHQ 10 Alice", "2024-01-01")
	if len(got) != 1 || got[0].Memo != "" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestParse_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "bracket only has no branch", input: "(14 Bob Carol)", want: 0},
		{name: "no time after branch", input: "HQ Alice Bob", want: 0},
		{name: "no names", input: "HQ 10 1팀 ABD", want: 0},
		{name: "bracket without time", input: "HQ 10 (Bob Carol)", want: 0},
		{name: "malformed time token", input: "HQ 25:99 Alice", want: 0},
		{name: "unmatched parenthesis tolerated", input: "HQ 10 Alice (14 Bob", want: 2},
		{name: "blank lines ignored", input: "\n\n   HQ 10 Alice   \n\n", want: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tc.input, "2024-01-01")
			if len(got) != tc.want {
				t.Fatalf("expected %d records, got %d: %+v", tc.want, len(got), got)
			}
		})
	}
}

func TestParser_IsValidName(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	tests := []struct {
		token string
		want  bool
	}{
		{token: "Alice", want: true},
		{token: "진리", want: true},
		{token: "Abdul", want: true},
		{token: "ABD", want: false},
		{token: "HQ", want: false},
		{token: "14", want: false},
		{token: "2팀", want: false},
		{token: "마감", want: false},
		{token: "진리마감", want: false},
		{token: "Closing", want: false},
		{token: "(", want: false},
		{token: "-", want: false},
	}

	for _, tc := range tests {
		if got := parser.isValidName(tc.token); got != tc.want {
			t.Fatalf("isValidName(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestParser_CustomIgnoreKeywords(t *testing.T) {
	t.Parallel()

	parser := NewParser(WithIgnoreKeywords([]string{"guest"}))
	got := parser.Parse("HQ 10 Alice Guest1 마감", "2024-01-01")
	if len(got) != 2 {
		t.Fatalf("expected Alice and 마감 with custom keywords, got %+v", got)
	}
	if got[0].Name != "Alice" || got[1].Name != "마감" {
		t.Fatalf("unexpected names: %+v", got)
	}
}

func TestParser_StepIsAFold(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	state := parseState{}
	state = parser.step(state, "HQ 10 Alice", "2024-01-01")
	if state.batchStart != 0 || len(state.records) != 1 {
		t.Fatalf("unexpected state after first shift line: %+v", state)
	}
	state = parser.step(state, "East 9 Bob Carol", "2024-01-01")
	if state.batchStart != 1 || len(state.records) != 3 {
		t.Fatalf("unexpected state after second shift line: %+v", state)
	}
	state = parser.step(state, "*rental", "2024-01-01")
	if state.records[0].Memo != "" || state.records[1].Memo != "rental" || state.records[2].Memo != "rental" {
		t.Fatalf("unexpected memos: %+v", state.records)
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	trailing := FromConfig(config.ParserConfig{TrailingCheckOut: true})
	if got := trailing.Parse("HQ 10 Alice 18", "2024-01-01"); len(got) != 1 || got[0].ScheduledOut != "18" {
		t.Fatalf("expected trailing check-out, got %+v", got)
	}

	custom := FromConfig(config.ParserConfig{IgnoreKeywords: []string{"Alice"}})
	got := custom.Parse("HQ 10 Alice Bob", "2024-01-01")
	if len(got) != 1 || got[0].Name != "Bob" {
		t.Fatalf("expected Alice to be ignored, got %+v", got)
	}
}
