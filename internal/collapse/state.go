// Package collapse holds the expand/collapse state of a document tree and the
// flattened line sequence derived from it.
package collapse

import (
	"sort"

	"github.com/oakwood-commons/jvx/internal/tree"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// ExpandAll as an initial depth expands every collapsible node.
const ExpandAll = -1

// Cursor locates the selected line.
type Cursor struct {
	NodeID    string
	LineIndex int
}

// State bundles a tree, its expanded set and the cursor. States are values:
// every change returns a new State and leaves the receiver untouched.
type State struct {
	tree     *tree.Tree
	expanded map[string]struct{}
	version  uint64
	cursor   Cursor
	flat     *flatCache
}

// flatCache is shared by every State copy with the same expanded set.
type flatCache struct {
	filled  bool
	version uint64
	nodes   []*tree.Node
	index   map[string]int
}

func newFlatCache() *flatCache { return &flatCache{} }

// Initialize builds the tree for v and expands containers whose level is
// below depth. The root is always expanded; depth ExpandAll (or any negative
// value) expands everything.
func Initialize(v jsonvalue.Value, depth int) State {
	t := tree.Build(v)
	expanded := make(map[string]struct{})
	for _, id := range t.CollapsibleIDs() {
		n, _ := t.Node(id)
		if depth < 0 || n.Level < depth || n.IsRoot() {
			expanded[id] = struct{}{}
		}
	}
	return New(t, expanded)
}

// New wraps an existing tree. Ids in expanded that do not name collapsible
// nodes are ignored. The cursor starts on the root.
func New(t *tree.Tree, expanded map[string]struct{}) State {
	set := make(map[string]struct{}, len(expanded))
	for id := range expanded {
		if n, ok := t.Node(id); ok && n.Collapsible {
			set[id] = struct{}{}
		}
	}
	return State{
		tree:     t,
		expanded: set,
		cursor:   Cursor{NodeID: tree.RootID, LineIndex: 0},
		flat:     newFlatCache(),
	}
}

// Tree returns the underlying tree.
func (s State) Tree() *tree.Tree { return s.tree }

// Root returns the root node, or nil for the zero State.
func (s State) Root() *tree.Node {
	if s.tree == nil {
		return nil
	}
	return s.tree.Root
}

// Value returns the document the state was built from.
func (s State) Value() jsonvalue.Value {
	if s.tree == nil {
		return jsonvalue.Value{}
	}
	return s.tree.Value
}

// Version increases every time the expanded set changes.
func (s State) Version() uint64 { return s.version }

// Cursor returns the cursor position.
func (s State) Cursor() Cursor { return s.cursor }

// IsExpanded reports whether id is in the expanded set.
func (s State) IsExpanded(id string) bool {
	_, ok := s.expanded[id]
	return ok
}

// ExpandedIDs returns the expanded set in sorted order.
func (s State) ExpandedIDs() []string {
	out := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Flattened returns the visible nodes, closing markers included. The result
// is computed once per expanded-set version and must not be modified.
func (s State) Flattened() []*tree.Node {
	return s.cache().nodes
}

// Len is the number of visible lines.
func (s State) Len() int { return len(s.cache().nodes) }

// IndexOf returns the line holding id, if visible.
func (s State) IndexOf(id string) (int, bool) {
	i, ok := s.cache().index[id]
	return i, ok
}

// NodeAt returns the node on line i.
func (s State) NodeAt(i int) (*tree.Node, bool) {
	nodes := s.cache().nodes
	if i < 0 || i >= len(nodes) {
		return nil, false
	}
	return nodes[i], true
}

// CursorNode returns the node under the cursor.
func (s State) CursorNode() (*tree.Node, bool) {
	return s.NodeAt(s.cursor.LineIndex)
}

func (s State) cache() *flatCache {
	if s.tree == nil {
		return &flatCache{index: map[string]int{}}
	}
	if s.flat != nil && s.flat.filled && s.flat.version == s.version {
		return s.flat
	}
	nodes := Flatten(s.tree, s.expanded)
	c := &flatCache{filled: true, version: s.version, nodes: nodes, index: make(map[string]int, len(nodes))}
	for i, n := range nodes {
		c.index[n.ID] = i
	}
	if s.flat != nil {
		*s.flat = *c
		return s.flat
	}
	return c
}

// Flatten walks t in pre-order, emitting each node and, for expanded
// collapsible nodes, their children followed by the closing marker.
func Flatten(t *tree.Tree, expanded map[string]struct{}) []*tree.Node {
	var out []*tree.Node
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		out = append(out, n)
		if !n.Collapsible {
			return
		}
		if _, ok := expanded[n.ID]; !ok {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		if closer, ok := t.Closing(n.ID); ok {
			out = append(out, closer)
		}
	}
	walk(t.Root)
	return out
}

// WithCursorLine moves the cursor to line i, clamped to the visible range.
func (s State) WithCursorLine(i int) State {
	n := s.Len()
	if n == 0 {
		return s
	}
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	node, _ := s.NodeAt(i)
	s.cursor = Cursor{NodeID: node.ID, LineIndex: i}
	return s
}

// WithExpanded sets whether id is expanded. Non-collapsible ids and
// unchanged states return s as is.
func (s State) WithExpanded(id string, expand bool) State {
	if s.tree == nil {
		return s
	}
	n, ok := s.tree.Node(id)
	if !ok || !n.Collapsible || s.IsExpanded(id) == expand {
		return s
	}
	next := make(map[string]struct{}, len(s.expanded)+1)
	for k := range s.expanded {
		next[k] = struct{}{}
	}
	if expand {
		next[id] = struct{}{}
	} else {
		delete(next, id)
	}
	return s.withSet(next)
}

// WithExpandedSet replaces the expanded set.
func (s State) WithExpandedSet(ids []string) State {
	if s.tree == nil {
		return s
	}
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if n, ok := s.tree.Node(id); ok && n.Collapsible {
			next[id] = struct{}{}
		}
	}
	return s.withSet(next)
}

func (s State) withSet(next map[string]struct{}) State {
	s.expanded = next
	s.version++
	s.flat = newFlatCache()
	return s.Relocate()
}

// Relocate keeps the cursor on a visible node: when its node is hidden the
// cursor moves to the nearest visible ancestor, and the line index is
// refreshed to match the current flattening.
func (s State) Relocate() State {
	if s.tree == nil {
		return s
	}
	if i, ok := s.IndexOf(s.cursor.NodeID); ok {
		s.cursor.LineIndex = i
		return s
	}
	for _, id := range s.tree.Ancestors(s.cursor.NodeID) {
		if i, ok := s.IndexOf(id); ok {
			s.cursor = Cursor{NodeID: id, LineIndex: i}
			return s
		}
	}
	s.cursor = Cursor{NodeID: tree.RootID, LineIndex: 0}
	return s
}

// WithCursorNode moves the cursor to id if it is visible.
func (s State) WithCursorNode(id string) State {
	if i, ok := s.IndexOf(id); ok {
		s.cursor = Cursor{NodeID: id, LineIndex: i}
	}
	return s
}
