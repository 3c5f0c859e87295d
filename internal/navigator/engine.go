// Package navigator applies navigation actions to a collapse.State.
package navigator

import (
	"github.com/oakwood-commons/jvx/internal/collapse"
	"github.com/oakwood-commons/jvx/internal/tree"
)

// Result is the outcome of one navigation step. ScrollTo is set when the
// number of visible lines changed, so the host can re-center on the cursor.
type Result struct {
	State    collapse.State
	ScrollTo int
	Scroll   bool
}

// Handle applies a to s. It never fails: unknown actions and actions that
// do not apply to the cursor's node return s unchanged.
func Handle(s collapse.State, a Action) Result {
	if s.Len() == 0 {
		return Result{State: s}
	}
	cur := s.Cursor().LineIndex

	var next collapse.State
	switch a.Type {
	case MoveUp:
		next = s.WithCursorLine(cur - 1)
	case MoveDown:
		next = s.WithCursorLine(cur + 1)
	case GotoTop:
		next = s.WithCursorLine(0)
	case GotoBottom:
		next = s.WithCursorLine(s.Len() - 1)
	case PageUp:
		if a.Count <= 0 {
			return Result{State: s}
		}
		next = s.WithCursorLine(cur - a.Count)
	case PageDown:
		if a.Count <= 0 {
			return Result{State: s}
		}
		next = s.WithCursorLine(cur + a.Count)
	case GotoLine:
		next = s.WithCursorLine(a.Count)
	case GotoParent:
		next = gotoParent(s)
	case ToggleNode:
		next = toggle(s)
	case ExpandNode:
		next = setCursorExpanded(s, true)
	case CollapseNode:
		next = setCursorExpanded(s, false)
	case ExpandAll:
		next = s.WithExpandedSet(s.Tree().CollapsibleIDs())
	case CollapseAll:
		next = s.WithExpandedSet(nil)
	default:
		return Result{State: s}
	}

	next = next.Relocate()
	res := Result{State: next}
	if next.Len() != s.Len() {
		res.Scroll = true
		res.ScrollTo = next.Cursor().LineIndex
	}
	return res
}

// target is the container a toggle acts on. On a closing marker that is the
// owning container, so the cursor can fold a block from either end.
func target(s collapse.State) (*tree.Node, bool) {
	n, ok := s.CursorNode()
	if !ok {
		return nil, false
	}
	if n.Type == tree.ClosingMarker {
		return s.Tree().Node(n.Owner)
	}
	return n, true
}

func toggle(s collapse.State) collapse.State {
	n, ok := target(s)
	if !ok || !n.Collapsible {
		return s
	}
	return s.WithExpanded(n.ID, !s.IsExpanded(n.ID))
}

func setCursorExpanded(s collapse.State, expand bool) collapse.State {
	n, ok := target(s)
	if !ok || !n.Collapsible {
		return s
	}
	return s.WithExpanded(n.ID, expand)
}

func gotoParent(s collapse.State) collapse.State {
	n, ok := s.CursorNode()
	if !ok {
		return s
	}
	id := n.Parent
	if n.Type == tree.ClosingMarker {
		id = n.Owner
	}
	if id == "" {
		return s
	}
	return s.WithCursorNode(id)
}
