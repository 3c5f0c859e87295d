package highlight

import (
	"fmt"
	"regexp"
	"sort"
)

// Scope selects which part of a line a search term is matched against.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeKeys   Scope = "keys"
	ScopeValues Scope = "values"
)

// ParseScope accepts all, keys or values; empty means all.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeKeys, ScopeValues:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid search scope %q: valid values are all, keys, values", s)
}

// MatchSpan is one occurrence of the search term. Columns are byte offsets
// into the formatted line, end exclusive.
type MatchSpan struct {
	LineIndex   int
	ColumnStart int
	ColumnEnd   int
	MatchText   string
}

// termPattern compiles a literal, case-folding matcher for term.
func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// ApplySearchHighlighting splits tokens around case-insensitive occurrences
// of term. Matched pieces are flagged Match, or CurrentMatch when current is
// set, and take the palette's match color. An empty term returns tokens
// unchanged.
func ApplySearchHighlighting(tokens []Token, term string, current bool, p Palette) []Token {
	if term == "" {
		return tokens
	}
	re := termPattern(term)
	level, color := Match, p.Match
	if current {
		level, color = CurrentMatch, p.CurrentMatch
	}
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		locs := re.FindAllStringIndex(tok.Text, -1)
		if len(locs) == 0 {
			out = append(out, tok)
			continue
		}
		pos := 0
		for _, loc := range locs {
			if loc[0] > pos {
				out = append(out, Token{Text: tok.Text[pos:loc[0]], Kind: tok.Kind, Color: tok.Color})
			}
			out = append(out, Token{Text: tok.Text[loc[0]:loc[1]], Kind: tok.Kind, Color: color, Match: level})
			pos = loc[1]
		}
		if pos < len(tok.Text) {
			out = append(out, Token{Text: tok.Text[pos:], Kind: tok.Kind, Color: tok.Color})
		}
	}
	return out
}

// FindMatches scans formatted lines for term. ScopeKeys looks only inside key
// tokens, ScopeValues inside primitive value tokens and ScopeAll anywhere on
// the line. Quote characters around keys and strings are never matched.
func FindMatches(lines []string, term string, scope Scope) []MatchSpan {
	if term == "" {
		return nil
	}
	re := termPattern(term)
	var out []MatchSpan
	for i, line := range lines {
		if scope == ScopeAll || scope == "" {
			for _, loc := range re.FindAllStringIndex(line, -1) {
				out = append(out, MatchSpan{LineIndex: i, ColumnStart: loc[0], ColumnEnd: loc[1], MatchText: line[loc[0]:loc[1]]})
			}
			continue
		}
		col := 0
		for _, tok := range Tokenize(line) {
			if inScope(tok.Kind, scope) {
				start, end := 0, len(tok.Text)
				if tok.Kind == Key || tok.Kind == String {
					start, end = unquoted(tok.Text)
				}
				inner := tok.Text[start:end]
				for _, loc := range re.FindAllStringIndex(inner, -1) {
					from := col + start + loc[0]
					to := col + start + loc[1]
					out = append(out, MatchSpan{LineIndex: i, ColumnStart: from, ColumnEnd: to, MatchText: line[from:to]})
				}
			}
			col += len(tok.Text)
		}
	}
	return out
}

func inScope(k Kind, scope Scope) bool {
	switch scope {
	case ScopeKeys:
		return k == Key
	case ScopeValues:
		return k == String || k == Number || k == Bool || k == Null
	default:
		return true
	}
}

func unquoted(s string) (int, int) {
	start, end := 0, len(s)
	if end > 0 && s[0] == '"' {
		start = 1
	}
	if end > start && s[end-1] == '"' {
		end--
	}
	return start, end
}

// ApplyMatches marks the given spans of one line. Spans may come in any
// order; current is the index into spans of the selected match, or -1.
func ApplyMatches(tokens []Token, spans []MatchSpan, current int, p Palette) []Token {
	if len(spans) == 0 {
		return tokens
	}
	type mark struct {
		start, end int
		level      MatchLevel
	}
	marks := make([]mark, 0, len(spans))
	for i, s := range spans {
		level := Match
		if i == current {
			level = CurrentMatch
		}
		marks = append(marks, mark{start: s.ColumnStart, end: s.ColumnEnd, level: level})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	var out []Token
	col := 0
	for _, tok := range tokens {
		tokStart, tokEnd := col, col+len(tok.Text)
		pos := tokStart
		for _, m := range marks {
			if m.end <= pos || m.start >= tokEnd {
				continue
			}
			from := max(m.start, pos)
			to := min(m.end, tokEnd)
			if from > pos {
				out = append(out, Token{Text: tok.Text[pos-tokStart : from-tokStart], Kind: tok.Kind, Color: tok.Color})
			}
			color := p.Match
			if m.level == CurrentMatch {
				color = p.CurrentMatch
			}
			out = append(out, Token{Text: tok.Text[from-tokStart : to-tokStart], Kind: tok.Kind, Color: color, Match: m.level})
			pos = to
		}
		if pos < tokEnd {
			out = append(out, Token{Text: tok.Text[pos-tokStart:], Kind: tok.Kind, Color: tok.Color})
		}
		col = tokEnd
	}
	return out
}
