package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

type TagKind string

const (
	TagPart   TagKind = "part"
	TagRental TagKind = "rental"
)

// Tag is a sub-attribute embedded in a free-text memo, such as "파트: 오픈"
// or "rental 15~17".
type Tag struct {
	Kind  TagKind `json:"kind"`
	Value string  `json:"value"`
}

func ParseTagKind(value string) (TagKind, error) {
	switch TagKind(strings.ToLower(strings.TrimSpace(value))) {
	case TagPart:
		return TagPart, nil
	case TagRental:
		return TagRental, nil
	default:
		return "", fmt.Errorf("unsupported memo tag %q (supported: part, rental)", value)
	}
}

type tagPattern struct {
	re      *regexp.Regexp
	english bool
}

// Value tokens stop at whitespace, commas and the memo separator.
var tagPatterns = map[TagKind][]tagPattern{
	TagPart: {
		{re: regexp.MustCompile(`파트\s*[:：]?\s*([^\s,/]+)|([^\s,/]+)\s*파트`)},
		{re: regexp.MustCompile(`(?i)\bpart(?:\s*[:：]\s*|\s+)([^\s,/]+)`), english: true},
	},
	TagRental: {
		{re: regexp.MustCompile(`대관\s*[:：]?\s*([^\s,/]+(?:\s*~\s*[^\s,/]+)?)`)},
		{re: regexp.MustCompile(`(?i)\brental(?:\s*[:：]\s*|\s+)([^\s,/]+(?:\s*~\s*[^\s,/]+)?)`), english: true},
	},
}

var (
	slashRunPattern          = regexp.MustCompile(`[\s/]+`)
	shiftLabelPattern        = regexp.MustCompile(`오픈|마감|미들`)
	englishShiftLabelPattern = regexp.MustCompile(`(?i)\b(open|closing|middle)\b`)
)

// ExtractTag returns the value of the first tag of kind found in memo. Part
// falls back to a bare shift label ("오픈", "closing", ...) when no explicit
// part tag is present.
func ExtractTag(memo string, kind TagKind) (string, bool) {
	if strings.TrimSpace(memo) == "" {
		return "", false
	}
	for _, pattern := range tagPatterns[kind] {
		if value, ok := firstGroup(pattern.re, memo); ok {
			return value, true
		}
	}
	if kind != TagPart {
		return "", false
	}
	if label := shiftLabelPattern.FindString(memo); label != "" {
		return label, true
	}
	if label := englishShiftLabelPattern.FindString(memo); label != "" {
		return strings.ToLower(label), true
	}
	return "", false
}

// ExtractTags returns every tag kind present in memo.
func ExtractTags(memo string) []Tag {
	tags := make([]Tag, 0, 2)
	for _, kind := range []TagKind{TagPart, TagRental} {
		if value, ok := ExtractTag(memo, kind); ok {
			tags = append(tags, Tag{Kind: kind, Value: value})
		}
	}
	return tags
}

// SetTag rewrites memo so that it carries value for kind. Existing tags of the
// same kind are removed first; an empty value only removes. The new tag keeps
// the language of the tag it replaces and defaults to Korean.
func SetTag(memo string, kind TagKind, value string) string {
	english := false
	for _, pattern := range tagPatterns[kind] {
		if pattern.re.MatchString(memo) {
			english = english || pattern.english
			memo = pattern.re.ReplaceAllString(memo, "")
		}
	}
	if kind == TagPart {
		memo = shiftLabelPattern.ReplaceAllString(memo, "")
		memo = englishShiftLabelPattern.ReplaceAllString(memo, "")
	}
	memo = tidyMemo(memo)

	value = strings.TrimSpace(value)
	if value == "" {
		return memo
	}
	tag := fmt.Sprintf("%s: %s", tagPrefix(kind, english), value)
	return appendMemo(memo, tag)
}

func tagPrefix(kind TagKind, english bool) string {
	switch {
	case english:
		return string(kind)
	case kind == TagPart:
		return "파트"
	default:
		return "대관"
	}
}

func firstGroup(re *regexp.Regexp, value string) (string, bool) {
	match := re.FindStringSubmatch(value)
	if match == nil {
		return "", false
	}
	for _, group := range match[1:] {
		if group != "" {
			return group, true
		}
	}
	return "", false
}

// tidyMemo drops empty segments left behind between memo separators. A
// separator is a run of slashes touching whitespace or either end of the memo,
// so "3/4" inside a segment survives.
func tidyMemo(memo string) string {
	kept := make([]string, 0, 4)
	keep := func(segment string) {
		if trimmed := strings.Join(strings.Fields(segment), " "); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	start := 0
	for _, loc := range slashRunPattern.FindAllStringIndex(memo, -1) {
		run := memo[loc[0]:loc[1]]
		if !strings.Contains(run, "/") {
			continue
		}
		atEdge := loc[0] == 0 || loc[1] == len(memo)
		if !atEdge && strings.Trim(run, "/") == "" {
			continue
		}
		keep(memo[start:loc[0]])
		start = loc[1]
	}
	keep(memo[start:])
	return strings.Join(kept, memoSeparator)
}
