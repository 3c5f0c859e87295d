package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jvx/internal/highlight"
	"github.com/oakwood-commons/jvx/pkg/core"
)

const tabWidth = 4

// View renders the full screen on the alternate screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render(false))
	v.AltScreen = true
	return v
}

// Snapshot renders the current screen once. plain drops all styling.
func (m *Model) Snapshot(plain bool) string {
	return m.render(plain)
}

type painter struct {
	plain bool
}

func (p painter) paint(s lipgloss.Style, text string) string {
	if p.plain || text == "" {
		return text
	}
	return s.Render(text)
}

func (m *Model) render(plain bool) string {
	p := painter{plain: plain}
	body := m.engine.ViewportHeight()

	var lines []string
	if m.mode == HelpMode {
		lines = m.helpLines(p, body)
	} else {
		lines = m.bodyLines(p)
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	if len(lines) > body {
		lines = lines[:body]
	}
	if m.mode == SearchMode || m.mode == QueryMode {
		lines = append(lines, m.promptLine(p))
	}
	lines = append(lines, m.statusLine(p))
	return strings.Join(lines, "\n")
}

func (m *Model) bodyLines(p painter) []string {
	f := m.engine.Render()
	if f.NoData {
		return []string{p.paint(m.theme.LineNumber, "(no data)")}
	}
	numWidth := len(strconv.Itoa(f.Total))
	out := make([]string, 0, len(f.Lines))
	for _, l := range f.Lines {
		out = append(out, m.renderLine(p, l, numWidth))
	}
	return out
}

func (m *Model) renderLine(p painter, l core.StyledLine, numWidth int) string {
	var b strings.Builder
	remaining := m.width
	if p.plain {
		remaining -= runewidth.StringWidth(cursorMarker)
	}

	withCursor := func(s lipgloss.Style) lipgloss.Style {
		if l.IsCursor {
			return s.Inherit(m.theme.Cursor)
		}
		return s
	}
	write := func(s lipgloss.Style, text string) {
		if remaining <= 0 || text == "" {
			return
		}
		if w := runewidth.StringWidth(text); w > remaining {
			text = runewidth.Truncate(text, remaining, "")
		}
		remaining -= runewidth.StringWidth(text)
		b.WriteString(p.paint(withCursor(s), text))
	}

	if m.lineNumbers {
		write(m.theme.LineNumber, fmt.Sprintf("%*d ", numWidth, l.LineNumber))
	}
	write(m.theme.Gutter, l.Gutter)
	for _, tok := range l.Tokens {
		write(m.theme.TokenStyle(tok), strings.ReplaceAll(tok.Text, "\t", strings.Repeat(" ", tabWidth)))
	}
	if l.IsCursor {
		if p.plain {
			return cursorMarker + b.String()
		}
		if remaining > 0 {
			b.WriteString(p.paint(m.theme.Cursor, strings.Repeat(" ", remaining)))
		}
	} else if p.plain {
		return strings.Repeat(" ", runewidth.StringWidth(cursorMarker)) + b.String()
	}
	return b.String()
}

// cursorMarker marks the cursor line in plain snapshots.
const cursorMarker = "> "

func (m *Model) promptLine(p painter) string {
	prefix := "/"
	if m.mode == QueryMode {
		prefix = ":"
	}
	return p.paint(m.theme.Prompt, prefix) + m.input.View()
}

// statusLine shows the cursor path and messages on the left and the
// position on the right.
func (m *Model) statusLine(p painter) string {
	left := m.engine.CursorPath()
	if m.query != "" {
		left = "[" + m.query + "] " + left
	}
	if m.status != "" {
		left += "  " + m.status
	}

	var right []string
	if matches := m.engine.Matches(); len(matches) > 0 {
		right = append(right, fmt.Sprintf("match %d/%d", m.engine.CurrentMatch()+1, len(matches)))
	}
	if pending := m.keys.Pending(); pending != "" {
		right = append(right, pending)
	}
	f := m.engine.Render()
	if !f.NoData {
		right = append(right, fmt.Sprintf("%d/%d", m.engine.State().Cursor().LineIndex+1, f.Total), scrollLabel(f))
	}
	rightText := strings.Join(right, "  ")

	avail := m.width - runewidth.StringWidth(rightText) - 1
	if avail < 0 {
		avail = 0
	}
	left = runewidth.Truncate(left, avail, "…")
	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(rightText)
	if gap < 1 {
		gap = 1
	}
	text := left + strings.Repeat(" ", gap) + rightText

	style := m.theme.Status
	if m.statusType == StatusError && m.status != "" {
		style = m.theme.StatusError
	}
	return p.paint(style, text)
}

func scrollLabel(f core.Frame) string {
	switch {
	case !f.HasAbove && !f.HasBelow:
		return "All"
	case !f.HasAbove:
		return "Top"
	case !f.HasBelow:
		return "Bot"
	}
	hidden := f.Total - len(f.Lines)
	if hidden <= 0 {
		return "All"
	}
	return fmt.Sprintf("%d%%", f.Offset*100/hidden)
}

func (m *Model) helpLines(p painter, height int) []string {
	entries := HelpFor(m.keys.Mode())
	out := []string{p.paint(m.theme.Prompt, fmt.Sprintf("Key bindings (%s mode), esc to close", m.keys.Mode()))}
	keyWidth := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(strings.Join(e.Keys, ", ")); w > keyWidth {
			keyWidth = w
		}
	}
	for _, e := range entries {
		keys := strings.Join(e.Keys, ", ")
		pad := strings.Repeat(" ", keyWidth-runewidth.StringWidth(keys))
		line := "  " + p.paint(m.theme.TokenStyle(highlight.Token{Kind: highlight.Key}), keys) + pad + "  " + e.Command.Describe()
		out = append(out, line)
		if len(out) >= height {
			break
		}
	}
	return out
}
