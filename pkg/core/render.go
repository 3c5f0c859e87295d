package core

import (
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/highlight"
	"github.com/oakwood-commons/jvx/internal/viewport"
)

// StyledLine is one rendered line of a Frame.
type StyledLine struct {
	// Index is the position in the flattened line sequence.
	Index      int
	Text       string
	Tokens     []Token
	LineNumber int
	IsCursor   bool
	// Gutter is the expand/collapse marker, empty when glyphs are off.
	Gutter string
}

// Frame is the visible window of the document.
type Frame struct {
	Lines    []StyledLine
	Total    int
	Offset   int
	HasAbove bool
	HasBelow bool
	NoData   bool
}

// Render builds the frame for the current viewport. Only visible lines are
// tokenized and highlighted.
func (e *Engine) Render() Frame {
	if e.NoData() {
		return Frame{NoData: true}
	}
	lines := e.Lines()
	nodes := e.state.Flattened()
	w := viewport.Compute(len(lines), e.offset, e.height)
	f := Frame{
		Total:    len(lines),
		Offset:   w.Start,
		HasAbove: w.HasAbove,
		HasBelow: w.HasBelow,
		Lines:    make([]StyledLine, 0, w.Len()),
	}

	byLine := e.matchesByLine(w.Start, w.End)
	cursor := e.state.Cursor().LineIndex
	for i := w.Start; i < w.End; i++ {
		if i >= len(nodes) {
			continue
		}
		n := nodes[i]
		tokens := highlight.TokenizeWith(lines[i], e.palette)
		if spans, ok := byLine[i]; ok {
			tokens = highlight.ApplyMatches(tokens, spans.spans, spans.current, e.palette)
		}
		f.Lines = append(f.Lines, StyledLine{
			Index:      i,
			Text:       lines[i],
			Tokens:     tokens,
			LineNumber: i + 1,
			IsCursor:   i == cursor,
			Gutter:     formatter.Gutter(n, e.state.IsExpanded(n.ID), e.display.Glyphs),
		})
	}
	return f
}

type lineMatches struct {
	spans   []MatchSpan
	current int
}

func (e *Engine) matchesByLine(start, end int) map[int]lineMatches {
	if len(e.matches) == 0 {
		return nil
	}
	out := make(map[int]lineMatches)
	for i, m := range e.matches {
		if m.LineIndex < start || m.LineIndex >= end {
			continue
		}
		lm, ok := out[m.LineIndex]
		if !ok {
			lm.current = -1
		}
		if i == e.current {
			lm.current = len(lm.spans)
		}
		lm.spans = append(lm.spans, m)
		out[m.LineIndex] = lm
	}
	return out
}
