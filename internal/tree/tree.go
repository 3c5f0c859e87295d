// Package tree builds the static node tree for a JSON document.
package tree

import (
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// NodeType classifies a tree node.
type NodeType uint8

const (
	Primitive NodeType = iota
	ObjectNode
	ArrayNode
	ClosingMarker
)

func (t NodeType) String() string {
	switch t {
	case Primitive:
		return "primitive"
	case ObjectNode:
		return "object"
	case ArrayNode:
		return "array"
	case ClosingMarker:
		return "closing-marker"
	default:
		return "unknown"
	}
}

// Node is one element of the tree. Parent is an id into the owning Tree's
// arena rather than a pointer.
type Node struct {
	ID       string
	Path     []jsonvalue.Segment
	Type     NodeType
	Value    jsonvalue.Value // primitives only
	Children []*Node

	// Kind tags the value kind; closing markers carry their owner's kind.
	Kind jsonvalue.Kind

	// Collapsible is true for non-empty objects and arrays.
	Collapsible bool
	Parent      string
	Level       int

	// Last is true when the node is the final child of its parent. The root
	// is always Last.
	Last bool

	// Owner is the container id a closing marker belongs to.
	Owner string
}

// IsContainer reports whether the node is an object or array.
func (n *Node) IsContainer() bool {
	return n.Type == ObjectNode || n.Type == ArrayNode
}

// IsRoot reports whether the node is the document root.
func (n *Node) IsRoot() bool { return n.ID == RootID }

// Key returns the member key when the node sits directly inside an object.
func (n *Node) Key() (string, bool) {
	if len(n.Path) == 0 || n.Type == ClosingMarker {
		return "", false
	}
	last := n.Path[len(n.Path)-1]
	if last.IsIndex {
		return "", false
	}
	return last.Key, true
}

// ArrayIndex returns the element index when the node sits directly inside an
// array.
func (n *Node) ArrayIndex() (int, bool) {
	if len(n.Path) == 0 || n.Type == ClosingMarker {
		return 0, false
	}
	last := n.Path[len(n.Path)-1]
	return last.Index, last.IsIndex
}

// Tree is the arena holding every node of a document by id.
type Tree struct {
	Root  *Node
	Value jsonvalue.Value

	nodes       map[string]*Node
	closers     map[string]*Node
	collapsible []string
	containers  int
	primitives  int
}

// Build constructs the tree for v. Any value is accepted; an Invalid value
// yields a lone primitive root.
func Build(v jsonvalue.Value) *Tree {
	t := &Tree{
		Value:   v,
		nodes:   make(map[string]*Node),
		closers: make(map[string]*Node),
	}
	t.Root = t.build(v, nil, RootID, "", 0, true)
	return t
}

func (t *Tree) build(v jsonvalue.Value, path []jsonvalue.Segment, id, parent string, level int, last bool) *Node {
	n := &Node{
		ID:     id,
		Path:   path,
		Parent: parent,
		Kind:   v.Kind(),
		Level:  level,
		Last:   last,
	}
	t.nodes[id] = n

	switch v.Kind() {
	case jsonvalue.Object:
		n.Type = ObjectNode
		members := v.Members()
		n.Children = make([]*Node, 0, len(members))
		for i, m := range members {
			seg := jsonvalue.KeySegment(m.Key)
			n.Children = append(n.Children,
				t.build(m.Value, appendPath(path, seg), ChildID(id, seg), id, level+1, i == len(members)-1))
		}
	case jsonvalue.Array:
		n.Type = ArrayNode
		items := v.Items()
		n.Children = make([]*Node, 0, len(items))
		for i, item := range items {
			seg := jsonvalue.IndexSegment(i)
			n.Children = append(n.Children,
				t.build(item, appendPath(path, seg), ChildID(id, seg), id, level+1, i == len(items)-1))
		}
	default:
		n.Type = Primitive
		n.Value = v
		t.primitives++
		return n
	}

	t.containers++
	if len(n.Children) > 0 {
		n.Collapsible = true
		t.collapsible = append(t.collapsible, id)
		closeID := ClosingID(id)
		t.closers[id] = &Node{
			ID:     closeID,
			Path:   path,
			Type:   ClosingMarker,
			Kind:   n.Kind,
			Parent: id,
			Level:  level,
			Last:   last,
			Owner:  id,
		}
	}
	return n
}

// appendPath copies so sibling paths never share a backing array.
func appendPath(path []jsonvalue.Segment, seg jsonvalue.Segment) []jsonvalue.Segment {
	out := make([]jsonvalue.Segment, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

// Node looks up a node or closing marker by id.
func (t *Tree) Node(id string) (*Node, bool) {
	if n, ok := t.nodes[id]; ok {
		return n, true
	}
	if IsClosingID(id) {
		owner := id[:len(id)-len(closingSuffix)]
		if c, ok := t.closers[owner]; ok {
			return c, true
		}
	}
	return nil, false
}

// Closing returns the closing marker of a collapsible container.
func (t *Tree) Closing(ownerID string) (*Node, bool) {
	c, ok := t.closers[ownerID]
	return c, ok
}

// CollapsibleIDs lists every collapsible node id in pre-order.
func (t *Tree) CollapsibleIDs() []string {
	out := make([]string, len(t.collapsible))
	copy(out, t.collapsible)
	return out
}

// Size returns the number of nodes in the tree, closing markers excluded.
func (t *Tree) Size() int { return len(t.nodes) }

// Containers returns the number of object and array nodes, empty ones included.
func (t *Tree) Containers() int { return t.containers }

// Primitives returns the number of leaf nodes.
func (t *Tree) Primitives() int { return t.primitives }

// Ancestors returns the ids from the node's parent up to the root. A closing
// marker's first ancestor is its owner.
func (t *Tree) Ancestors(id string) []string {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	var out []string
	for n.Parent != "" {
		out = append(out, n.Parent)
		parent, ok := t.nodes[n.Parent]
		if !ok {
			break
		}
		n = parent
	}
	return out
}

// Descendants counts the nodes below n, not counting n itself.
func Descendants(n *Node) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + Descendants(c)
	}
	return total
}

// CollapsibleDescendants counts the collapsible nodes below n.
func CollapsibleDescendants(n *Node) int {
	total := 0
	for _, c := range n.Children {
		if c.Collapsible {
			total++
		}
		total += CollapsibleDescendants(c)
	}
	return total
}
