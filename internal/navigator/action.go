package navigator

// ActionType names a navigation action.
type ActionType string

const (
	MoveUp       ActionType = "move_up"
	MoveDown     ActionType = "move_down"
	ToggleNode   ActionType = "toggle_node"
	ExpandNode   ActionType = "expand_node"
	CollapseNode ActionType = "collapse_node"
	ExpandAll    ActionType = "expand_all"
	CollapseAll  ActionType = "collapse_all"
	GotoTop      ActionType = "goto_top"
	GotoBottom   ActionType = "goto_bottom"
	PageUp       ActionType = "page_up"
	PageDown     ActionType = "page_down"
	GotoParent   ActionType = "goto_parent"
	GotoLine     ActionType = "goto_line"
)

// Action is one navigation request. Count is used by page_up, page_down
// (lines to move) and goto_line (absolute line index).
type Action struct {
	Type  ActionType
	Count int
}

// Simple returns an action without a count.
func Simple(t ActionType) Action { return Action{Type: t} }

// Page returns a page_up or page_down action moving count lines.
func Page(t ActionType, count int) Action { return Action{Type: t, Count: count} }

// Line returns a goto_line action.
func Line(index int) Action { return Action{Type: GotoLine, Count: index} }

// ParseActionType maps a name such as "move_down" to its ActionType.
func ParseActionType(name string) (ActionType, bool) {
	switch t := ActionType(name); t {
	case MoveUp, MoveDown, ToggleNode, ExpandNode, CollapseNode, ExpandAll, CollapseAll,
		GotoTop, GotoBottom, PageUp, PageDown, GotoParent, GotoLine:
		return t, true
	}
	return "", false
}
