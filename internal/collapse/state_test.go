package collapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oakwood-commons/jvx/internal/jsontest"
	"github.com/oakwood-commons/jvx/internal/tree"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

func ids(nodes []*tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func abc() jsonvalue.Value {
	return jsonvalue.ObjectValue(
		jsonvalue.Member{Key: "a", Value: jsonvalue.NumberValue("1")},
		jsonvalue.Member{Key: "b", Value: jsonvalue.ArrayValue(jsonvalue.StringValue("x"), jsonvalue.StringValue("y"))},
		jsonvalue.Member{Key: "c", Value: jsonvalue.ObjectValue()},
	)
}

func TestInitialize(t *testing.T) {
	s := Initialize(abc(), ExpandAll)
	assert.Equal(t, []string{"root", "root.a", "root.b", "root.b[0]", "root.b[1]", "root.b#end", "root.c", "root#end"}, ids(s.Flattened()))
	assert.Equal(t, Cursor{NodeID: "root", LineIndex: 0}, s.Cursor())

	s = Initialize(abc(), 1)
	assert.Equal(t, []string{"root", "root.a", "root.b", "root.c", "root#end"}, ids(s.Flattened()))

	s = Initialize(abc(), 0)
	assert.True(t, s.IsExpanded("root"), "root is always expanded")
	assert.Equal(t, 5, s.Len())
}

func TestZeroState(t *testing.T) {
	var s State
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Root())
	_, ok := s.CursorNode()
	assert.False(t, ok)
	assert.Equal(t, s, s.WithCursorLine(4))
	assert.Equal(t, s, s.WithExpanded("root", false))
}

func TestWithExpanded(t *testing.T) {
	s := Initialize(abc(), ExpandAll)
	v0 := s.Version()

	collapsed := s.WithExpanded("root.b", false)
	assert.Equal(t, v0+1, collapsed.Version())
	assert.Equal(t, 5, collapsed.Len())
	assert.Equal(t, 8, s.Len(), "receiver is unchanged")

	same := collapsed.WithExpanded("root.b", false)
	assert.Equal(t, collapsed.Version(), same.Version())

	leaf := s.WithExpanded("root.a", false)
	assert.Equal(t, s.Version(), leaf.Version(), "non-collapsible toggle is a no-op")

	empty := s.WithExpanded("root.c", true)
	assert.Equal(t, s.Version(), empty.Version())
}

func TestCursorRelocation(t *testing.T) {
	s := Initialize(abc(), ExpandAll)
	s = s.WithCursorNode("root.b[1]")
	require.Equal(t, 4, s.Cursor().LineIndex)

	s = s.WithExpanded("root.b", false)
	assert.Equal(t, Cursor{NodeID: "root.b", LineIndex: 2}, s.Cursor())

	s = s.WithExpanded("root.b", true).WithCursorNode("root.b#end")
	s = s.WithExpandedSet(nil)
	assert.Equal(t, Cursor{NodeID: "root", LineIndex: 0}, s.Cursor())
	assert.Equal(t, 1, s.Len())
}

func TestCursorLineFollowsShift(t *testing.T) {
	s := Initialize(abc(), ExpandAll).WithCursorNode("root.c")
	require.Equal(t, 6, s.Cursor().LineIndex)
	s = s.WithExpanded("root.b", false)
	assert.Equal(t, Cursor{NodeID: "root.c", LineIndex: 3}, s.Cursor())
}

func TestWithCursorLineClamps(t *testing.T) {
	s := Initialize(abc(), ExpandAll)
	assert.Equal(t, 7, s.WithCursorLine(100).Cursor().LineIndex)
	assert.Equal(t, "root#end", s.WithCursorLine(100).Cursor().NodeID)
	assert.Equal(t, 0, s.WithCursorLine(-3).Cursor().LineIndex)
}

func TestFlattenCacheSharedAcrossCursorMoves(t *testing.T) {
	s := Initialize(abc(), ExpandAll)
	first := s.Flattened()
	moved := s.WithCursorLine(3)
	assert.Same(t, &first[0], &moved.Flattened()[0])
}

func TestFlattenLineCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := jsontest.Value(4).Draw(t, "doc")
		s := Initialize(v, ExpandAll)
		tr := s.Tree()

		want := tr.Primitives() + len(tr.CollapsibleIDs())*2 + (tr.Containers() - len(tr.CollapsibleIDs()))
		if s.Len() != want {
			t.Fatalf("fully expanded length %d, want %d", s.Len(), want)
		}

		for _, id := range tr.CollapsibleIDs() {
			n, _ := tr.Node(id)
			collapsed := s.WithExpanded(id, false)
			removed := s.Len() - collapsed.Len()
			expect := tree.Descendants(n) + tree.CollapsibleDescendants(n) + 1
			if removed != expect {
				t.Fatalf("collapsing %s removed %d lines, want %d", id, removed, expect)
			}
		}
	})
}

func TestExpandCollapseIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := jsontest.Value(4).Draw(t, "doc")
		depth := rapid.IntRange(-1, 3).Draw(t, "depth")
		s := Initialize(v, depth)
		collapsible := s.Tree().CollapsibleIDs()
		if len(collapsible) == 0 {
			return
		}
		id := rapid.SampledFrom(collapsible).Draw(t, "id")
		if s.IsExpanded(id) {
			return
		}
		round := s.WithExpanded(id, true).WithExpanded(id, false)
		assert.Equal(t, ids(s.Flattened()), ids(round.Flattened()))
	})
}

func TestCursorAlwaysVisible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := jsontest.Value(4).Draw(t, "doc")
		s := Initialize(v, ExpandAll)
		collapsible := s.Tree().CollapsibleIDs()
		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				s = s.WithCursorLine(rapid.IntRange(0, s.Len()).Draw(t, "line"))
			case 1:
				if len(collapsible) > 0 {
					id := rapid.SampledFrom(collapsible).Draw(t, "toggle")
					s = s.WithExpanded(id, !s.IsExpanded(id))
				}
			case 2:
				s = s.WithExpandedSet(collapsible)
			case 3:
				s = s.WithExpandedSet(nil)
			default:
				if len(collapsible) > 0 {
					s = s.WithExpanded(rapid.SampledFrom(collapsible).Draw(t, "collapse"), false)
				}
			}
			idx, ok := s.IndexOf(s.Cursor().NodeID)
			if !ok {
				t.Fatalf("cursor %q not visible", s.Cursor().NodeID)
			}
			if idx != s.Cursor().LineIndex {
				t.Fatalf("cursor line %d, node is on %d", s.Cursor().LineIndex, idx)
			}
			if s.Flattened()[0].ID != tree.RootID {
				t.Fatalf("root missing from first line")
			}
		}
	})
}
