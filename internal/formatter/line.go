package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jvx/internal/collapse"
	"github.com/oakwood-commons/jvx/internal/tree"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// GlyphStyle selects the expand/collapse markers drawn in the gutter.
type GlyphStyle string

const (
	GlyphsNone    GlyphStyle = "none"
	GlyphsUnicode GlyphStyle = "unicode"
	GlyphsASCII   GlyphStyle = "ascii"
)

// ValidGlyphStyles lists the accepted glyph styles.
var ValidGlyphStyles = []GlyphStyle{GlyphsNone, GlyphsUnicode, GlyphsASCII}

// ValidateGlyphStyle returns an error for unknown styles. Empty means none.
func ValidateGlyphStyle(style string) error {
	if style == "" {
		return nil
	}
	for _, valid := range ValidGlyphStyles {
		if GlyphStyle(style) == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid glyphs %q: valid values are none, unicode, ascii", style)
}

// Ellipsis ends truncated string values.
const Ellipsis = "…"

// LineOptions controls how nodes render as text lines.
type LineOptions struct {
	IndentWidth int
	UseTabs     bool
	// ShowArrayIndices prefixes array elements with "[i] ".
	ShowArrayIndices bool
	// HideValues replaces primitive values with a <type> placeholder.
	HideValues bool
	// MaxValueLength truncates string values wider than this many cells.
	// 0 or negative means unlimited.
	MaxValueLength int
	Glyphs         GlyphStyle
}

// DefaultLineOptions indents by two spaces and shows everything.
func DefaultLineOptions() LineOptions {
	return LineOptions{IndentWidth: 2, Glyphs: GlyphsNone}
}

// Indent returns the leading whitespace for a nesting level.
func (o LineOptions) Indent(level int) string {
	if level <= 0 {
		return ""
	}
	if o.UseTabs {
		return strings.Repeat("\t", level)
	}
	if o.IndentWidth <= 0 {
		return ""
	}
	return strings.Repeat(" ", level*o.IndentWidth)
}

// FormatLine renders one flattened node. Containers show their opening
// character when expanded and {...} or [...] when collapsed; closing markers
// sit at their owner's level. Every node except the last child of its parent
// carries a trailing comma, and a closing marker carries its owner's comma.
func FormatLine(n *tree.Node, expanded bool, opts LineOptions) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(opts.Indent(n.Level))

	if n.Type == tree.ClosingMarker {
		b.WriteString(closingFor(n))
		if !n.Last {
			b.WriteByte(',')
		}
		return b.String()
	}

	writePrefix(&b, n, opts)
	switch n.Type {
	case tree.ObjectNode:
		b.WriteString(openFor("{", "}", n, expanded))
	case tree.ArrayNode:
		b.WriteString(openFor("[", "]", n, expanded))
	default:
		b.WriteString(primitiveText(n.Value, opts))
	}
	if !n.Last && !(expanded && n.Collapsible) {
		b.WriteByte(',')
	}
	return b.String()
}

func writePrefix(b *strings.Builder, n *tree.Node, opts LineOptions) {
	if key, ok := n.Key(); ok {
		b.WriteString(jsonvalue.Quote(key))
		b.WriteString(": ")
		return
	}
	if i, ok := n.ArrayIndex(); ok && opts.ShowArrayIndices {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("] ")
	}
}

func openFor(open, close string, n *tree.Node, expanded bool) string {
	switch {
	case !n.Collapsible:
		return open + close
	case expanded:
		return open
	default:
		return open + "..." + close
	}
}

func closingFor(n *tree.Node) string {
	if n.Kind == jsonvalue.Array {
		return "]"
	}
	return "}"
}

func primitiveText(v jsonvalue.Value, opts LineOptions) string {
	if opts.HideValues {
		if !v.IsValid() {
			return "<undefined>"
		}
		return "<" + v.Kind().String() + ">"
	}
	if v.Kind() == jsonvalue.String && opts.MaxValueLength > 0 && runewidth.StringWidth(v.Str()) > opts.MaxValueLength {
		return jsonvalue.Quote(runewidth.Truncate(v.Str(), opts.MaxValueLength, Ellipsis))
	}
	if !v.IsValid() {
		return "undefined"
	}
	return v.Literal()
}

// Gutter returns the expand/collapse marker for a node, or "" when glyphs
// are off. Non-collapsible lines get blank padding of the same width.
func Gutter(n *tree.Node, expanded bool, style GlyphStyle) string {
	var open, closed string
	switch style {
	case GlyphsUnicode:
		open, closed = "▾ ", "▸ "
	case GlyphsASCII:
		open, closed = "- ", "+ "
	default:
		return ""
	}
	if n == nil || n.Type == tree.ClosingMarker || !n.Collapsible {
		return "  "
	}
	if expanded {
		return open
	}
	return closed
}

// FormatLines renders every visible line of s.
func FormatLines(s collapse.State, opts LineOptions) []string {
	nodes := s.Flattened()
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = FormatLine(n, s.IsExpanded(n.ID), opts)
	}
	return out
}

// FormatDocument renders v fully expanded, one line per node.
func FormatDocument(v jsonvalue.Value, opts LineOptions) string {
	lines := FormatLines(collapse.Initialize(v, collapse.ExpandAll), opts)
	return strings.Join(lines, "\n")
}
