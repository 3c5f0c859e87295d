package core

import (
	"github.com/oakwood-commons/jvx/internal/highlight"
	"github.com/oakwood-commons/jvx/internal/navigator"
)

// SetSearch starts a case-insensitive search over the visible lines and
// moves the cursor to the first match at or after it. An empty scope keeps
// the current one; an empty term clears the search. It returns the number of
// matches.
func (e *Engine) SetSearch(term string, scope SearchScope) int {
	e.term = term
	if scope != "" {
		e.scope = scope
	}
	e.current = -1
	e.scan()
	if len(e.matches) == 0 {
		e.log.V(1).Info("search", "term", term, "scope", string(e.scope), "matches", 0)
		return 0
	}
	cursor := e.state.Cursor().LineIndex
	e.current = 0
	for i, m := range e.matches {
		if m.LineIndex >= cursor {
			e.current = i
			break
		}
	}
	e.jumpToCurrent()
	e.log.V(1).Info("search", "term", term, "scope", string(e.scope), "matches", len(e.matches))
	return len(e.matches)
}

// ClearSearch drops the search term and its highlights.
func (e *Engine) ClearSearch() {
	e.term = ""
	e.matches = nil
	e.current = -1
	e.scanned = scanKey{}
}

// SearchTerm returns the active term.
func (e *Engine) SearchTerm() string { return e.term }

// SearchScope returns the active scope.
func (e *Engine) SearchScope() SearchScope { return e.scope }

// Matches returns the matches of the active search.
func (e *Engine) Matches() []MatchSpan { return e.matches }

// CurrentMatch returns the index of the selected match, or -1.
func (e *Engine) CurrentMatch() int { return e.current }

// NextMatch selects the following match, wrapping to the first.
func (e *Engine) NextMatch() bool {
	if len(e.matches) == 0 {
		return false
	}
	e.current = (e.current + 1) % len(e.matches)
	e.jumpToCurrent()
	return true
}

// PrevMatch selects the preceding match, wrapping to the last.
func (e *Engine) PrevMatch() bool {
	if len(e.matches) == 0 {
		return false
	}
	e.current--
	if e.current < 0 {
		e.current = len(e.matches) - 1
	}
	e.jumpToCurrent()
	return true
}

func (e *Engine) jumpToCurrent() {
	m := e.matches[e.current]
	res := navigator.Handle(e.state, navigator.Line(m.LineIndex))
	e.state = res.State
	e.follow()
}

// currentScan describes the lines Lines would return right now.
func (e *Engine) currentScan() scanKey {
	return scanKey{valid: true, generation: e.generation, version: e.state.Version(), display: e.display}
}

func (e *Engine) scan() {
	e.matches = highlight.FindMatches(e.Lines(), e.term, e.scope)
	e.scanned = e.currentScan()
}

// refreshMatches reruns the active search when the visible lines changed
// since the last scan. The selected match index is kept when it still exists.
func (e *Engine) refreshMatches() {
	if e.term == "" || e.scanned == e.currentScan() {
		return
	}
	e.scan()
	switch {
	case len(e.matches) == 0:
		e.current = -1
	case e.current >= len(e.matches):
		e.current = len(e.matches) - 1
	}
}
