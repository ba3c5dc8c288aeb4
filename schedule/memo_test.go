package schedule

import "testing"

func TestExtractTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		memo   string
		kind   TagKind
		want   string
		wantOK bool
	}{
		{name: "korean part with colon", memo: "파트: 오픈 / 대관: 15~17", kind: TagPart, want: "오픈", wantOK: true},
		{name: "korean suffix part", memo: "오전파트", kind: TagPart, want: "오전", wantOK: true},
		{name: "part after separator", memo: "키 반납 / 파트 B", kind: TagPart, want: "B", wantOK: true},
		{name: "english part", memo: "Part: floor", kind: TagPart, want: "floor", wantOK: true},
		{name: "shift label fallback", memo: "마감 청소", kind: TagPart, want: "마감", wantOK: true},
		{name: "english shift label fallback", memo: "Closing shift", kind: TagPart, want: "closing", wantOK: true},
		{name: "korean rental range", memo: "파트: 오픈 / 대관: 15~17", kind: TagRental, want: "15~17", wantOK: true},
		{name: "spaced rental range", memo: "대관 15 ~ 17", kind: TagRental, want: "15 ~ 17", wantOK: true},
		{name: "english rental", memo: "rental 3pm", kind: TagRental, want: "3pm", wantOK: true},
		{name: "no rental", memo: "late key", kind: TagRental},
		{name: "hyphenated word is not a part tag", memo: "part-time helper", kind: TagPart},
		{name: "rentals is not a rental tag", memo: "rentals-desk key", kind: TagRental},
		{name: "empty memo", memo: "", kind: TagPart},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractTag(tc.memo, tc.kind)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("ExtractTag(%q, %s) = %q, %v; want %q, %v", tc.memo, tc.kind, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestExtractTags(t *testing.T) {
	t.Parallel()

	tags := ExtractTags("rental 3pm / 파트: 미들")
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %+v", tags)
	}
	if tags[0] != (Tag{Kind: TagPart, Value: "미들"}) || tags[1] != (Tag{Kind: TagRental, Value: "3pm"}) {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if got := ExtractTags("plain note"); len(got) != 0 {
		t.Fatalf("expected no tags, got %+v", got)
	}
}

func TestSetTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		memo  string
		kind  TagKind
		value string
		want  string
	}{
		{name: "replace korean part", memo: "rental 3pm / 파트: 오픈", kind: TagPart, value: "미들", want: "rental 3pm / 파트: 미들"},
		{name: "replace english rental keeps english", memo: "rental 3pm", kind: TagRental, value: "4pm", want: "rental: 4pm"},
		{name: "remove rental", memo: "대관: 15~17 / 키 반납", kind: TagRental, value: "", want: "키 반납"},
		{name: "add to empty memo", memo: "", kind: TagPart, value: "A", want: "파트: A"},
		{name: "part replaces bare shift label", memo: "마감 / 키 반납", kind: TagPart, value: "오픈", want: "키 반납 / 파트: 오픈"},
		{name: "tidies repeated separators", memo: "a // / b", kind: TagRental, value: "", want: "a / b"},
		{name: "keeps slash inside a segment", memo: "우천시 3/4 이동", kind: TagRental, value: "15~17", want: "우천시 3/4 이동 / 대관: 15~17"},
		{name: "trims dangling separator", memo: "/ 키 반납 /", kind: TagPart, value: "", want: "키 반납"},
		{name: "keeps hyphenated english word", memo: "part-time helper", kind: TagPart, value: "오픈", want: "part-time helper / 파트: 오픈"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SetTag(tc.memo, tc.kind, tc.value); got != tc.want {
				t.Fatalf("SetTag(%q, %s, %q) = %q, want %q", tc.memo, tc.kind, tc.value, got, tc.want)
			}
		})
	}
}

func TestSetTag_RoundTrip(t *testing.T) {
	t.Parallel()

	memo := SetTag("키 반납", TagRental, "18~20")
	got, ok := ExtractTag(memo, TagRental)
	if !ok || got != "18~20" {
		t.Fatalf("expected rental 18~20 after SetTag, got %q (%v) from %q", got, ok, memo)
	}
}

func TestParseTagKind(t *testing.T) {
	t.Parallel()

	if kind, err := ParseTagKind(" Rental "); err != nil || kind != TagRental {
		t.Fatalf("expected rental, got %q (%v)", kind, err)
	}
	if _, err := ParseTagKind("shift"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}
