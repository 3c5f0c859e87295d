package tree

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

func obj(kv ...interface{}) jsonvalue.Value {
	members := make([]jsonvalue.Member, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		members = append(members, jsonvalue.Member{Key: kv[i].(string), Value: kv[i+1].(jsonvalue.Value)})
	}
	return jsonvalue.ObjectValue(members...)
}

func num(s string) jsonvalue.Value { return jsonvalue.NumberValue(s) }

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name string
		path []jsonvalue.Segment
		want string
	}{
		{name: "root", path: nil, want: "root"},
		{name: "key", path: []jsonvalue.Segment{jsonvalue.KeySegment("a")}, want: "root.a"},
		{name: "index", path: []jsonvalue.Segment{jsonvalue.IndexSegment(3)}, want: "root[3]"},
		{
			name: "mixed",
			path: []jsonvalue.Segment{jsonvalue.KeySegment("items"), jsonvalue.IndexSegment(0), jsonvalue.KeySegment("name")},
			want: "root.items[0].name",
		},
		{name: "dotted key", path: []jsonvalue.Segment{jsonvalue.KeySegment("a.b")}, want: `root.a\.b`},
		{name: "bracket key", path: []jsonvalue.Segment{jsonvalue.KeySegment("[0]")}, want: `root.\[0]`},
		{name: "hash key", path: []jsonvalue.Segment{jsonvalue.KeySegment("x#end")}, want: `root.x\#end`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateID(tt.path))
		})
	}

	// Distinct paths that a naive join would merge.
	a := GenerateID([]jsonvalue.Segment{jsonvalue.KeySegment("a"), jsonvalue.KeySegment("b")})
	b := GenerateID([]jsonvalue.Segment{jsonvalue.KeySegment("a.b")})
	assert.NotEqual(t, a, b)
	c := GenerateID([]jsonvalue.Segment{jsonvalue.IndexSegment(0)})
	d := GenerateID([]jsonvalue.Segment{jsonvalue.KeySegment("[0]")})
	assert.NotEqual(t, c, d)
}

func segmentGen() *rapid.Generator[jsonvalue.Segment] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Segment {
		if rapid.Bool().Draw(t, "isIndex") {
			return jsonvalue.IndexSegment(rapid.IntRange(0, 20).Draw(t, "index"))
		}
		key := rapid.StringOfN(rapid.SampledFrom([]rune{'a', 'b', '.', '[', ']', '#', '\\', '0', 'e', 'n', 'd'}), 0, 6, -1).Draw(t, "key")
		return jsonvalue.KeySegment(key)
	})
}

func TestGenerateIDInjective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p1 := rapid.SliceOfN(segmentGen(), 0, 4).Draw(t, "p1")
		p2 := rapid.SliceOfN(segmentGen(), 0, 4).Draw(t, "p2")
		if reflect.DeepEqual(p1, p2) {
			return
		}
		if GenerateID(p1) == GenerateID(p2) {
			t.Fatalf("paths %v and %v share id %q", p1, p2, GenerateID(p1))
		}
		if len(p1) > 0 && IsClosingID(GenerateID(p1)) {
			t.Fatalf("node id %q looks like a closing id", GenerateID(p1))
		}
		if ClosingID(GenerateID(p1)) == GenerateID(p2) {
			t.Fatalf("closing id of %v collides with %v", p1, p2)
		}
	})
}

func TestBuild(t *testing.T) {
	v := obj(
		"name", jsonvalue.StringValue("jvx"),
		"tags", jsonvalue.ArrayValue(jsonvalue.StringValue("a"), jsonvalue.StringValue("b")),
		"empty", jsonvalue.ObjectValue(),
		"none", jsonvalue.ArrayValue(),
	)
	tr := Build(v)

	require.Equal(t, RootID, tr.Root.ID)
	assert.Equal(t, ObjectNode, tr.Root.Type)
	assert.True(t, tr.Root.Collapsible)
	assert.Equal(t, 0, tr.Root.Level)
	assert.True(t, tr.Root.Last)
	require.Len(t, tr.Root.Children, 4)

	name := tr.Root.Children[0]
	assert.Equal(t, "root.name", name.ID)
	assert.Equal(t, Primitive, name.Type)
	assert.Equal(t, "jvx", name.Value.Str())
	assert.Equal(t, RootID, name.Parent)
	assert.Equal(t, 1, name.Level)
	assert.False(t, name.Last)
	key, ok := name.Key()
	assert.True(t, ok)
	assert.Equal(t, "name", key)

	tags := tr.Root.Children[1]
	assert.Equal(t, ArrayNode, tags.Type)
	assert.True(t, tags.Collapsible)
	require.Len(t, tags.Children, 2)
	assert.Equal(t, "root.tags[1]", tags.Children[1].ID)
	assert.True(t, tags.Children[1].Last)
	idx, ok := tags.Children[1].ArrayIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	empty := tr.Root.Children[2]
	assert.Equal(t, ObjectNode, empty.Type)
	assert.False(t, empty.Collapsible)
	_, hasCloser := tr.Closing(empty.ID)
	assert.False(t, hasCloser)

	assert.True(t, tr.Root.Children[3].Last)
	assert.Equal(t, []string{"root", "root.tags"}, tr.CollapsibleIDs())
	assert.Equal(t, 4, tr.Containers())
	assert.Equal(t, 3, tr.Primitives())
	assert.Equal(t, 7, tr.Size())

	closer, ok := tr.Node(ClosingID("root.tags"))
	require.True(t, ok)
	assert.Equal(t, ClosingMarker, closer.Type)
	assert.Equal(t, "root.tags", closer.Owner)
	assert.Equal(t, 1, closer.Level)
	assert.False(t, closer.Last)

	assert.Equal(t, []string{"root.tags", "root"}, tr.Ancestors("root.tags[0]"))
	assert.Equal(t, []string{"root.tags", "root"}, tr.Ancestors(ClosingID("root.tags")))
	assert.Empty(t, tr.Ancestors(RootID))
	assert.Equal(t, 6, Descendants(tr.Root))
	assert.Equal(t, 1, CollapsibleDescendants(tr.Root))
}

func TestBuildPrimitiveAndInvalidRoots(t *testing.T) {
	tr := Build(num("42"))
	assert.Equal(t, Primitive, tr.Root.Type)
	assert.False(t, tr.Root.Collapsible)
	assert.Empty(t, tr.CollapsibleIDs())

	tr = Build(jsonvalue.Value{})
	assert.Equal(t, Primitive, tr.Root.Type)
	assert.False(t, tr.Root.Value.IsValid())
}

func TestBuildTrickyKeys(t *testing.T) {
	v := obj(
		"a.b", num("1"),
		"a", obj("b", num("2")),
	)
	tr := Build(v)
	assert.Equal(t, 4, tr.Size())
	n1, ok := tr.Node(`root.a\.b`)
	require.True(t, ok)
	assert.Equal(t, "1", n1.Value.NumberLiteral())
	n2, ok := tr.Node("root.a.b")
	require.True(t, ok)
	assert.Equal(t, "2", n2.Value.NumberLiteral())
}
