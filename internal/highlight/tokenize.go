// Package highlight splits formatted lines into syntax tokens and overlays
// search matches on them.
package highlight

import (
	"regexp"
	"strings"
)

// Kind is the syntactic role of a token.
type Kind uint8

const (
	Default Kind = iota
	Key
	String
	Number
	Bool
	Null
	Brace
	Punct
	Index
	Placeholder
)

var kindNames = [...]string{"default", "key", "string", "number", "bool", "null", "brace", "punct", "index", "placeholder"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MatchLevel marks tokens produced by search highlighting.
type MatchLevel uint8

const (
	NoMatch MatchLevel = iota
	Match
	CurrentMatch
)

// Token is a styled run of text. Color is a color spec (ANSI number or hex)
// taken from the palette used to tokenize.
type Token struct {
	Text  string
	Kind  Kind
	Color string
	Match MatchLevel
}

// IsMatch reports whether the token is part of a search match.
func (t Token) IsMatch() bool { return t.Match != NoMatch }

// Palette maps token kinds and match levels to colors.
type Palette struct {
	Kinds        map[Kind]string
	Match        string
	CurrentMatch string
}

// DefaultPalette is the 256-color palette used when no theme is configured.
func DefaultPalette() Palette {
	return Palette{
		Kinds: map[Kind]string{
			Default:     "252",
			Key:         "81",
			String:      "114",
			Number:      "215",
			Bool:        "176",
			Null:        "244",
			Brace:       "250",
			Punct:       "245",
			Index:       "244",
			Placeholder: "244",
		},
		Match:        "58",
		CurrentMatch: "202",
	}
}

func (p Palette) color(k Kind) string {
	if c, ok := p.Kinds[k]; ok {
		return c
	}
	return p.Kinds[Default]
}

var (
	numberPattern = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)
	indexPattern  = regexp.MustCompile(`^\[[0-9]+\] `)
)

// Tokenize splits line using the default palette.
func Tokenize(line string) []Token {
	return TokenizeWith(line, DefaultPalette())
}

// TokenizeWith splits a formatted line into indentation, optional array
// index, optional key with its colon, the value and a trailing comma. The
// scanner honors quotes and backslash escapes, so a colon inside a quoted key
// or value never splits the line.
func TokenizeWith(line string, p Palette) []Token {
	var out []Token
	emit := func(text string, k Kind) {
		if text != "" {
			out = append(out, Token{Text: text, Kind: k, Color: p.color(k)})
		}
	}

	rest := line
	trimmed := strings.TrimLeft(rest, " \t")
	emit(rest[:len(rest)-len(trimmed)], Default)
	rest = trimmed

	if loc := indexPattern.FindStringIndex(rest); loc != nil {
		emit(rest[:loc[1]-1], Index)
		emit(" ", Default)
		rest = rest[loc[1]:]
	}

	if strings.HasPrefix(rest, `"`) {
		end := quotedEnd(rest)
		after := rest[end:]
		afterSpace := strings.TrimLeft(after, " ")
		if strings.HasPrefix(afterSpace, ":") {
			emit(rest[:end], Key)
			emit(after[:len(after)-len(afterSpace)], Default)
			emit(":", Punct)
			rest = afterSpace[1:]
			val := strings.TrimLeft(rest, " ")
			emit(rest[:len(rest)-len(val)], Default)
			rest = val
		}
	}

	value, comma := rest, ""
	if strings.HasPrefix(rest, `"`) {
		end := quotedEnd(rest)
		value, comma = rest[:end], rest[end:]
	} else if strings.HasSuffix(rest, ",") {
		value, comma = rest[:len(rest)-1], ","
	}
	emit(value, classify(value))
	if comma == "," {
		emit(comma, Punct)
	} else {
		emit(comma, Default)
	}
	return out
}

// quotedEnd returns the index just past the string literal that opens s, or
// len(s) if it is unterminated.
func quotedEnd(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i + 1
		}
	}
	return len(s)
}

func classify(value string) Kind {
	switch {
	case value == "":
		return Default
	case strings.HasPrefix(value, `"`):
		return String
	case value == "true" || value == "false":
		return Bool
	case value == "null":
		return Null
	case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"):
		return Placeholder
	case strings.Trim(value, "{}[].") == "":
		return Brace
	case numberPattern.MatchString(value):
		return Number
	default:
		return Default
	}
}

// Text joins the token texts back into a line.
func Text(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
