package tree

import (
	"strconv"
	"strings"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// RootID is the id of the document root.
const RootID = "root"

const closingSuffix = "#end"

// GenerateID derives a node id from its path. Keys are joined with "." and
// indices are written as [n]; the characters \ . [ # inside keys are
// backslash-escaped so two distinct paths never share an id.
func GenerateID(path []jsonvalue.Segment) string {
	if len(path) == 0 {
		return RootID
	}
	var b strings.Builder
	b.WriteString(RootID)
	for _, seg := range path {
		b.WriteString(segmentID(seg))
	}
	return b.String()
}

// ChildID appends one segment to a parent id.
func ChildID(parentID string, seg jsonvalue.Segment) string {
	return parentID + segmentID(seg)
}

// ClosingID returns the id of the closing marker owned by ownerID. The "#"
// is always escaped inside keys, so closing ids never collide with node ids.
func ClosingID(ownerID string) string {
	return ownerID + closingSuffix
}

// IsClosingID reports whether id names a closing marker.
func IsClosingID(id string) bool {
	if !strings.HasSuffix(id, closingSuffix) {
		return false
	}
	// An escaped "\#end" belongs to a key; count the backslashes before "#".
	rest := id[:len(id)-len(closingSuffix)]
	slashes := 0
	for i := len(rest) - 1; i >= 0 && rest[i] == '\\'; i-- {
		slashes++
	}
	return slashes%2 == 0
}

func segmentID(seg jsonvalue.Segment) string {
	if seg.IsIndex {
		return "[" + strconv.Itoa(seg.Index) + "]"
	}
	return "." + escapeKey(seg.Key)
}

func escapeKey(key string) string {
	if !strings.ContainsAny(key, `\.[#`) {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		switch r {
		case '\\', '.', '[', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
