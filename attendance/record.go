package attendance

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record is one person's single shift on one date. Empty strings mean "no
// value"; derived minute fields hold non-negative decimal integers when set.
// ID is zero until the record has been persisted.
type Record struct {
	ID              int64  `json:"id,omitempty"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Branch          string `json:"branch" validate:"required"`
	Name            string `json:"name" validate:"required"`
	ScheduledIn     string `json:"scheduledIn"`
	ActualIn        string `json:"actualIn"`
	ScheduledOut    string `json:"scheduledOut"`
	ActualOut       string `json:"actualOut"`
	LateMinutes     string `json:"lateMinutes" validate:"omitempty,minutes"`
	OvertimeMinutes string `json:"overtimeMinutes" validate:"omitempty,minutes"`
	WorkedMinutes   string `json:"workedMinutes" validate:"omitempty,minutes"`
	Memo            string `json:"memo"`
}

type Field string

const (
	FieldDate            Field = "date"
	FieldBranch          Field = "branch"
	FieldName            Field = "name"
	FieldScheduledIn     Field = "scheduled_in"
	FieldActualIn        Field = "actual_in"
	FieldScheduledOut    Field = "scheduled_out"
	FieldActualOut       Field = "actual_out"
	FieldLateMinutes     Field = "late_minutes"
	FieldOvertimeMinutes Field = "overtime_minutes"
	FieldWorkedMinutes   Field = "worked_minutes"
	FieldMemo            Field = "memo"
)

// Column describes how a field is laid out in tabular sources and sinks.
type Column struct {
	Field   Field
	Header  string
	Aliases []string
}

// Columns lists every persisted field in sheet order.
var Columns = []Column{
	{Field: FieldDate, Header: "Date", Aliases: []string{"날짜"}},
	{Field: FieldBranch, Header: "Branch", Aliases: []string{"지점", "location"}},
	{Field: FieldName, Header: "Name", Aliases: []string{"이름", "person"}},
	{Field: FieldScheduledIn, Header: "ScheduledIn", Aliases: []string{"예정출근", "scheduled_check_in"}},
	{Field: FieldActualIn, Header: "ActualIn", Aliases: []string{"실제출근", "actual_check_in"}},
	{Field: FieldScheduledOut, Header: "ScheduledOut", Aliases: []string{"예정퇴근", "scheduled_check_out"}},
	{Field: FieldActualOut, Header: "ActualOut", Aliases: []string{"실제퇴근", "actual_check_out"}},
	{Field: FieldLateMinutes, Header: "LateMinutes", Aliases: []string{"지각(분)", "지각"}},
	{Field: FieldOvertimeMinutes, Header: "OvertimeMinutes", Aliases: []string{"오버타임(분)", "오버타임"}},
	{Field: FieldWorkedMinutes, Header: "WorkedMinutes", Aliases: []string{"총 근무시간(분)", "총근무"}},
	{Field: FieldMemo, Header: "Memo", Aliases: []string{"비고", "note"}},
}

// Headers returns the canonical header row.
func Headers() []string {
	out := make([]string, 0, len(Columns))
	for _, col := range Columns {
		out = append(out, col.Header)
	}
	return out
}

func ParseField(value string) (Field, error) {
	trimmed := strings.TrimSpace(value)
	normalized := strings.ReplaceAll(strings.ToLower(trimmed), "-", "_")
	for _, col := range Columns {
		if string(col.Field) == normalized || strings.EqualFold(col.Header, trimmed) {
			return col.Field, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", value)
}

// FieldForHeader resolves a tabular header to its field. Canonical headers,
// field names and aliases match regardless of case, spaces, '_' and '-'.
func FieldForHeader(header string) (Field, bool) {
	normalized := normalizeHeader(header)
	if normalized == "" {
		return "", false
	}
	for _, col := range Columns {
		if normalizeHeader(col.Header) == normalized || normalizeHeader(string(col.Field)) == normalized {
			return col.Field, true
		}
		for _, alias := range col.Aliases {
			if normalizeHeader(alias) == normalized {
				return col.Field, true
			}
		}
	}
	return "", false
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}

// New returns an unsaved record as produced from a schedule line.
func New(date, branch, name, scheduledIn string) Record {
	return Record{
		Date:        date,
		Branch:      branch,
		Name:        name,
		ScheduledIn: scheduledIn,
	}
}

func (r Record) Get(field Field) string {
	if p := r.pointer(field); p != nil {
		return *p
	}
	return ""
}

// Set assigns value to field without re-deriving anything. Unknown fields are
// ignored.
func (r *Record) Set(field Field, value string) {
	if p := r.pointer(field); p != nil {
		*p = value
	}
}

// Values returns the field values in Columns order.
func (r Record) Values() []string {
	out := make([]string, 0, len(Columns))
	for _, col := range Columns {
		out = append(out, r.Get(col.Field))
	}
	return out
}

func (r *Record) pointer(field Field) *string {
	switch field {
	case FieldDate:
		return &r.Date
	case FieldBranch:
		return &r.Branch
	case FieldName:
		return &r.Name
	case FieldScheduledIn:
		return &r.ScheduledIn
	case FieldActualIn:
		return &r.ActualIn
	case FieldScheduledOut:
		return &r.ScheduledOut
	case FieldActualOut:
		return &r.ActualOut
	case FieldLateMinutes:
		return &r.LateMinutes
	case FieldOvertimeMinutes:
		return &r.OvertimeMinutes
	case FieldWorkedMinutes:
		return &r.WorkedMinutes
	case FieldMemo:
		return &r.Memo
	default:
		return nil
	}
}

// Patch is a partial update keyed by field.
type Patch map[Field]string

func ApplyPatch(rec Record, patch Patch) Record {
	for field, value := range patch {
		rec.Set(field, value)
	}
	return rec
}

// Diff returns the fields whose values differ between a and b.
func Diff(a, b Record) Patch {
	patch := make(Patch)
	for _, col := range Columns {
		if a.Get(col.Field) != b.Get(col.Field) {
			patch[col.Field] = b.Get(col.Field)
		}
	}
	return patch
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// minutes accepts a non-negative decimal integer.
	_ = v.RegisterValidation("minutes", func(fl validator.FieldLevel) bool {
		n, ok := Minutes(fl.Field().String())
		return ok && n >= 0
	})
	return v
}

// Validate checks the fields a store requires before persisting a record.
func Validate(rec Record) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
