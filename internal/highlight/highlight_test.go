package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type tk struct {
	text string
	kind Kind
}

func simplify(tokens []Token) []tk {
	out := make([]tk, len(tokens))
	for i, t := range tokens {
		out[i] = tk{t.Text, t.Kind}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []tk
	}{
		{name: "open brace", line: "{", want: []tk{{"{", Brace}}},
		{name: "closing with comma", line: "  ],", want: []tk{{"  ", Default}, {"]", Brace}, {",", Punct}}},
		{
			name: "number member",
			line: `  "a": 1,`,
			want: []tk{{"  ", Default}, {`"a"`, Key}, {":", Punct}, {" ", Default}, {"1", Number}, {",", Punct}},
		},
		{
			name: "colon inside key and value",
			line: `  "a:b": "c: d"`,
			want: []tk{{"  ", Default}, {`"a:b"`, Key}, {":", Punct}, {" ", Default}, {`"c: d"`, String}},
		},
		{
			name: "escaped quote in key",
			line: `"say \"x\": y": true`,
			want: []tk{{`"say \"x\": y"`, Key}, {":", Punct}, {" ", Default}, {"true", Bool}},
		},
		{name: "array string", line: `    "x",`, want: []tk{{"    ", Default}, {`"x"`, String}, {",", Punct}}},
		{name: "string with colon in array", line: `"k": 1`, want: []tk{{`"k"`, Key}, {":", Punct}, {" ", Default}, {"1", Number}}},
		{name: "collapsed", line: `  "o": {...},`, want: []tk{{"  ", Default}, {`"o"`, Key}, {":", Punct}, {" ", Default}, {"{...}", Brace}, {",", Punct}}},
		{name: "null", line: `null`, want: []tk{{"null", Null}}},
		{name: "index prefix", line: `  [3] -1.5e3`, want: []tk{{"  ", Default}, {"[3]", Index}, {" ", Default}, {"-1.5e3", Number}}},
		{name: "placeholder", line: `"s": <string>`, want: []tk{{`"s"`, Key}, {":", Punct}, {" ", Default}, {"<string>", Placeholder}}},
		{name: "empty", line: "", want: []tk{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.line)
			assert.Equal(t, tt.want, simplify(got))
			assert.Equal(t, tt.line, Text(got))
		})
	}
}

func TestTokenizeColors(t *testing.T) {
	p := DefaultPalette()
	toks := TokenizeWith(`"a": "b"`, p)
	require.Len(t, toks, 4)
	assert.Equal(t, p.Kinds[Key], toks[0].Color)
	assert.Equal(t, p.Kinds[String], toks[3].Color)

	custom := Palette{Kinds: map[Kind]string{Default: "1"}}
	for _, tok := range TokenizeWith(`"a": 1`, custom) {
		assert.Equal(t, "1", tok.Color, "missing kinds fall back to default")
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.String().Draw(t, "line")
		if got := Text(Tokenize(line)); got != line {
			t.Fatalf("round trip %q -> %q", line, got)
		}
	})
}

func TestApplySearchHighlightingEmptyTerm(t *testing.T) {
	toks := Tokenize(`  "Hello": "World"`)
	assert.Equal(t, toks, ApplySearchHighlighting(toks, "", true, DefaultPalette()))
}

func TestApplySearchHighlightingCaseInsensitive(t *testing.T) {
	p := DefaultPalette()
	toks := Tokenize(`"Hello World"`)
	lower := ApplySearchHighlighting(toks, "world", false, p)
	upper := ApplySearchHighlighting(toks, "World", false, p)
	assert.Equal(t, lower, upper)

	require.Len(t, lower, 3)
	assert.Equal(t, `"Hello `, lower[0].Text)
	assert.False(t, lower[0].IsMatch())
	assert.Equal(t, "World", lower[1].Text)
	assert.Equal(t, Match, lower[1].Match)
	assert.Equal(t, p.Match, lower[1].Color)
	assert.Equal(t, String, lower[1].Kind)
	assert.Equal(t, `"`, lower[2].Text)
	assert.Equal(t, p.Kinds[String], lower[2].Color)

	current := ApplySearchHighlighting(toks, "WORLD", true, p)
	assert.Equal(t, CurrentMatch, current[1].Match)
	assert.Equal(t, p.CurrentMatch, current[1].Color)
}

func TestApplySearchHighlightingMultiple(t *testing.T) {
	got := ApplySearchHighlighting(Tokenize(`"aXa"`), "a", false, DefaultPalette())
	var matched []string
	for _, tok := range got {
		if tok.IsMatch() {
			matched = append(matched, tok.Text)
		}
	}
	assert.Equal(t, []string{"a", "a"}, matched)
	assert.Equal(t, `"aXa"`, Text(got))
}

func TestApplySearchHighlightingMetacharacters(t *testing.T) {
	got := ApplySearchHighlighting(Tokenize(`"a.b"`), ".", false, DefaultPalette())
	n := 0
	for _, tok := range got {
		if tok.IsMatch() {
			n++
			assert.Equal(t, ".", tok.Text)
		}
	}
	assert.Equal(t, 1, n)
}

func TestFindMatchesKeysScope(t *testing.T) {
	lines := []string{`{`, `  "a": 1,`, `  "ab": 2`, `}`}
	lower := FindMatches(lines, "a", ScopeKeys)
	upper := FindMatches(lines, "A", ScopeKeys)
	require.Len(t, lower, 2)
	assert.Equal(t, MatchSpan{LineIndex: 1, ColumnStart: 3, ColumnEnd: 4, MatchText: "a"}, lower[0])
	assert.Equal(t, MatchSpan{LineIndex: 2, ColumnStart: 3, ColumnEnd: 4, MatchText: "a"}, lower[1])
	assert.Equal(t, lower, upper)
}

func TestFindMatchesScopes(t *testing.T) {
	lines := []string{`{`, `  "name": "nametag",`, `  "n": null`, `}`}
	assert.Len(t, FindMatches(lines, "name", ScopeKeys), 1)
	values := FindMatches(lines, "n", ScopeValues)
	require.Len(t, values, 2)
	assert.Equal(t, 1, values[0].LineIndex)
	assert.Equal(t, 11, values[0].ColumnStart)
	assert.Equal(t, 2, values[1].LineIndex)
	assert.Len(t, FindMatches(lines, "name", ScopeAll), 2)
	assert.Empty(t, FindMatches(lines, `"`, ScopeKeys), "quotes are not searchable in keys scope")
	assert.Nil(t, FindMatches(lines, "", ScopeAll))
}

func TestApplyMatches(t *testing.T) {
	p := DefaultPalette()
	line := `  "ab": "cab"`
	spans := FindMatches([]string{line}, "ab", ScopeAll)
	require.Len(t, spans, 2)

	got := ApplyMatches(Tokenize(line), spans, 1, p)
	assert.Equal(t, line, Text(got))
	var levels []MatchLevel
	for _, tok := range got {
		if tok.IsMatch() {
			assert.Equal(t, "ab", tok.Text)
			levels = append(levels, tok.Match)
		}
	}
	assert.Equal(t, []MatchLevel{Match, CurrentMatch}, levels)

	toks := Tokenize(line)
	assert.Equal(t, toks, ApplyMatches(toks, nil, -1, p))
}

func TestApplyMatchesAcrossTokens(t *testing.T) {
	line := `"a": 1`
	got := ApplyMatches(Tokenize(line), []MatchSpan{{ColumnStart: 2, ColumnEnd: 5, MatchText: `": `}}, 0, DefaultPalette())
	assert.Equal(t, line, Text(got))
	var matched string
	for _, tok := range got {
		if tok.IsMatch() {
			matched += tok.Text
		}
	}
	assert.Equal(t, `": `, matched)
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, s)
	s, err = ParseScope("keys")
	require.NoError(t, err)
	assert.Equal(t, ScopeKeys, s)
	_, err = ParseScope("paths")
	require.Error(t, err)
}
