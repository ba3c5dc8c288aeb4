// Package schedule turns pasted shift notes into attendance records.
//
// A note is a list of lines. A shift line starts with a branch label, then a
// check-in time and the names working from that time:
//
//	HQ 10 Alice Bob (14 Carol Dave)
//	*rental 3pm
//
// Bracketed groups share the branch of their line but carry their own time.
// A line starting with "*" appends a memo to every record of the preceding
// shift line.
package schedule

import (
	"regexp"
	"strings"
	"unicode"

	"shiftlog/attendance"
	"shiftlog/config"
	"shiftlog/internal/timeutil"
)

// DefaultIgnoreKeywords are shift labels and team markers that never name a
// person.
var DefaultIgnoreKeywords = []string{
	"마감", "ABD", "BGD", "1팀", "2팀", "3팀", "파트", "오픈", "미들",
	"closing", "open", "middle", "part", "team",
}

const memoSeparator = " / "

var (
	skipLinePattern  = regexp.MustCompile(`(?i)^(스케줄 없음|근무\s*-|휴무\s*-|연차\s*-|no schedule|work\s*-|off\s*-|leave\s*-)`)
	bracketPattern   = regexp.MustCompile(`\(([^)]+)\)`)
	asciiCodePattern = regexp.MustCompile(`^[A-Z]+$`)
)

type Option func(*Parser)

// WithIgnoreKeywords replaces the default ignore keywords.
func WithIgnoreKeywords(keywords []string) Option {
	return func(p *Parser) {
		p.ignore = normalizeKeywords(keywords)
	}
}

// WithTrailingCheckOut makes a time token that follows the names of a group
// the scheduled check-out of that group.
func WithTrailingCheckOut(enabled bool) Option {
	return func(p *Parser) {
		p.trailingCheckOut = enabled
	}
}

type Parser struct {
	ignore           []string
	trailingCheckOut bool
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{ignore: normalizeKeywords(DefaultIgnoreKeywords)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromConfig builds a parser from the parser section of the configuration.
// An empty keyword list keeps the defaults.
func FromConfig(cfg config.ParserConfig) *Parser {
	opts := []Option{WithTrailingCheckOut(cfg.TrailingCheckOut)}
	if len(cfg.IgnoreKeywords) > 0 {
		opts = append(opts, WithIgnoreKeywords(cfg.IgnoreKeywords))
	}
	return NewParser(opts...)
}

// Parse uses the default parser.
func Parse(text, date string) []attendance.Record {
	return NewParser().Parse(text, date)
}

// parseState is the accumulator folded over the input lines. batchStart
// indexes the first record produced by the most recent shift line.
type parseState struct {
	records    []attendance.Record
	batchStart int
}

// Parse converts text into records dated date, in input order. Lines that do
// not describe a shift produce nothing.
func (p *Parser) Parse(text, date string) []attendance.Record {
	state := parseState{records: make([]attendance.Record, 0, 16)}
	for _, line := range splitLines(text) {
		state = p.step(state, line, date)
	}
	return state.records
}

func (p *Parser) step(state parseState, line, date string) parseState {
	switch {
	case skipLinePattern.MatchString(line):
		return state
	case strings.HasPrefix(line, "*"):
		memo := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if memo == "" {
			return state
		}
		for i := state.batchStart; i < len(state.records); i++ {
			state.records[i].Memo = appendMemo(state.records[i].Memo, memo)
		}
		return state
	}

	state.batchStart = len(state.records)
	state.records = append(state.records, p.parseShiftLine(line, date)...)
	return state
}

type group struct {
	checkIn  string
	checkOut string
	names    []string
}

func (p *Parser) parseShiftLine(line, date string) []attendance.Record {
	subGroups := make([]group, 0, 2)
	for _, match := range bracketPattern.FindAllStringSubmatch(line, -1) {
		if g, ok := p.parseGroup(strings.Fields(match[1])); ok {
			subGroups = append(subGroups, g)
		}
	}

	tokens := strings.Fields(bracketPattern.ReplaceAllString(line, ""))
	if len(tokens) == 0 {
		return nil
	}
	branch := tokens[0]

	out := make([]attendance.Record, 0, len(tokens))
	if len(tokens) > 1 && timeutil.IsTimeToken(tokens[1]) {
		main := p.collectNames(group{checkIn: tokens[1]}, tokens[2:])
		out = appendGroup(out, date, branch, main)
	}
	for _, g := range subGroups {
		out = appendGroup(out, date, branch, g)
	}
	return out
}

// parseGroup reads the content of one bracketed group: the first time token
// is the check-in, every valid name token is a person.
func (p *Parser) parseGroup(tokens []string) (group, bool) {
	var g group
	rest := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if g.checkIn == "" && timeutil.IsTimeToken(token) {
			g.checkIn = token
			continue
		}
		rest = append(rest, token)
	}
	g = p.collectNames(g, rest)
	return g, g.checkIn != "" && len(g.names) > 0
}

func (p *Parser) collectNames(g group, tokens []string) group {
	for _, token := range tokens {
		if p.trailingCheckOut && g.checkOut == "" && len(g.names) > 0 && timeutil.IsTimeToken(token) {
			g.checkOut = token
			continue
		}
		if p.isValidName(token) {
			g.names = append(g.names, token)
		}
	}
	return g
}

func appendGroup(out []attendance.Record, date, branch string, g group) []attendance.Record {
	for _, name := range g.names {
		rec := attendance.New(date, branch, name, g.checkIn)
		rec.ScheduledOut = g.checkOut
		out = append(out, rec)
	}
	return out
}

// isValidName decides by token shape only; there is no roster lookup.
func (p *Parser) isValidName(token string) bool {
	if token == "" || timeutil.IsTimeToken(token) {
		return false
	}
	if unicode.IsDigit([]rune(token)[0]) {
		return false
	}
	if asciiCodePattern.MatchString(token) {
		return false
	}
	if !strings.ContainsFunc(token, unicode.IsLetter) {
		return false
	}
	lower := strings.ToLower(token)
	for _, keyword := range p.ignore {
		// Lowercase keywords match any casing; others such as "ABD" match as written.
		if keyword == strings.ToLower(keyword) {
			if strings.Contains(lower, keyword) {
				return false
			}
			continue
		}
		if strings.Contains(token, keyword) {
			return false
		}
	}
	return true
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func appendMemo(existing, memo string) string {
	if existing == "" {
		return memo
	}
	return existing + memoSeparator + memo
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
