package importer

import (
	"strings"

	"shiftlog/attendance"
)

type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Field returns the value of the column holding field, looked up by its
// canonical header, its field name and every alias.
func (r Record) Field(col attendance.Column) string {
	keys := make([]string, 0, len(col.Aliases)+2)
	keys = append(keys, col.Header, string(col.Field))
	keys = append(keys, col.Aliases...)
	return r.Get(keys...)
}

func (r Record) empty() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
