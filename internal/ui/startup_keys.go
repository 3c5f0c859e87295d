package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds simulated key presses to m before the program
// starts. Tokens use vim notation for special keys ("<CR>", "<Esc>", "<C-d>",
// "<F3>"); anything else is typed literally. A leading backslash forces the
// whole token to be literal. Commands returned by Update are discarded.
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			typeText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, seg := range parseTokenSegments(token) {
			if !seg.isVimKey {
				typeText(m, seg.text)
				continue
			}
			if msg, ok := keyMsgFromToken(seg.text); ok {
				m.Update(msg)
			} else {
				typeText(m, seg.text)
			}
		}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(keyPress(r))
	}
}

// keyPress builds the message a terminal sends for a printable rune.
func keyPress(r rune) tea.KeyPressMsg {
	if r == ' ' {
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// tokenSegment is one parsed piece of a token: a <...> key or literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into vim-style keys and literal text.
// Example: "<F3>name<CR>" -> <F3>, name, <CR>.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]tea.KeyPressMsg{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"space":     {Code: tea.KeySpace, Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
	"pageup":    {Code: tea.KeyPgUp},
	"pagedown":  {Code: tea.KeyPgDown},
	"f1":        {Code: tea.KeyF1},
	"f2":        {Code: tea.KeyF2},
	"f3":        {Code: tea.KeyF3},
	"f4":        {Code: tea.KeyF4},
	"f5":        {Code: tea.KeyF5},
	"f6":        {Code: tea.KeyF6},
	"f7":        {Code: tea.KeyF7},
	"f8":        {Code: tea.KeyF8},
	"f9":        {Code: tea.KeyF9},
	"f10":       {Code: tea.KeyF10},
}

// keyMsgFromToken parses a <...> token. <C-x> and <M-x> give ctrl and alt
// chords.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	inner := token[1 : len(token)-1]
	if msg, ok := namedKeys[strings.ToLower(inner)]; ok {
		return msg, true
	}
	if len(inner) == 3 && inner[1] == '-' {
		r := rune(inner[2])
		switch inner[0] {
		case 'C', 'c':
			return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}, true
		case 'M', 'm', 'A', 'a':
			return tea.KeyPressMsg{Code: r, Mod: tea.ModAlt}, true
		}
	}
	return tea.KeyPressMsg{}, false
}
