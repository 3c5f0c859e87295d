// Package viewport selects the visible window over a list of lines.
package viewport

// ClampOffset limits offset to [0, max(0, total-height)].
func ClampOffset(total, offset, height int) int {
	if height < 0 {
		height = 0
	}
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Window describes a visible slice of lines.
type Window struct {
	Start, End int
	HasAbove   bool
	HasBelow   bool
}

// Len is the number of visible lines.
func (w Window) Len() int { return w.End - w.Start }

// Compute returns the window for total lines at offset with the given height.
func Compute(total, offset, height int) Window {
	if total <= 0 || height <= 0 {
		return Window{}
	}
	start := ClampOffset(total, offset, height)
	end := start + height
	if end > total {
		end = total
	}
	return Window{Start: start, End: end, HasAbove: start > 0, HasBelow: end < total}
}

// VisibleSlice returns the lines in view and whether more lie above or below.
func VisibleSlice[T any](lines []T, offset, height int) ([]T, bool, bool) {
	w := Compute(len(lines), offset, height)
	return lines[w.Start:w.End], w.HasAbove, w.HasBelow
}

// RecenterForCursor returns the smallest change to offset that keeps cursor
// inside [offset, offset+height).
func RecenterForCursor(cursor, offset, height int) int {
	if height <= 0 {
		return offset
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

// Follow recenters on cursor and clamps the result for total lines.
func Follow(total, cursor, offset, height int) int {
	return ClampOffset(total, RecenterForCursor(cursor, offset, height), height)
}
