package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

const (
	// defaultMaxArrayInline is the max number of array elements to show inline.
	defaultMaxArrayInline = 3
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// ExpandArrays shows all array elements instead of "[N items]" summary.
	ExpandArrays bool
	// MaxArrayInline is max items to show inline for scalar arrays (default 3).
	MaxArrayInline int
	// MaxStringLen is max display width before truncating inline strings.
	// 0 or negative = no truncation (unlimited).
	MaxStringLen int
	// ArrayStyle controls how array indices are displayed:
	// "index" = [0], [1]; "numbered" = 1, 2; "bullet" = •; "none" = skip index.
	ArrayStyle string
}

// ValidArrayStyles contains all valid array style values.
var ValidArrayStyles = []string{"index", "numbered", "bullet", "none"}

// ValidateArrayStyle returns an error if the style is invalid.
func ValidateArrayStyle(style string) error {
	if style == "" {
		return nil // empty means use default
	}
	for _, valid := range ValidArrayStyles {
		if style == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid array-style %q: valid values are index, numbered, bullet, none", style)
}

// FormatArrayIndex formats an array index based on style.
func FormatArrayIndex(i int, style string) string {
	switch style {
	case "numbered":
		return fmt.Sprintf("%d", i+1)
	case "bullet":
		return "•"
	case "none":
		return ""
	default: // "index" or empty
		return fmt.Sprintf("[%d]", i)
	}
}

// formatKeyValue formats a key-value pair for display.
// If key is empty (e.g., from array-style none), returns just the value.
func formatKeyValue(key, value string) string {
	if key == "" {
		return value
	}
	return key + ": " + value
}

// formatKeyOnly returns the key or a placeholder if empty.
func formatKeyOnly(key string) string {
	if key == "" {
		return "(item)"
	}
	return key
}

// FormatAsTree renders v as a box-drawing tree. Objects become branches
// labelled by key in document order, arrays show indexed children, and
// primitives are displayed inline at leaves.
func FormatAsTree(v jsonvalue.Value, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}

	root := treeprint.New()
	buildTree(root, v, opts, 0)
	return root.String()
}

func buildTree(branch treeprint.Tree, v jsonvalue.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode("...")
		return
	}

	switch v.Kind() {
	case jsonvalue.Object:
		buildObjectTree(branch, v, opts, depth)
	case jsonvalue.Array:
		buildArrayTree(branch, v, opts, depth)
	default:
		// Primitive root.
		branch.AddNode(formatScalarValue(v, opts))
	}
}

func buildObjectTree(branch treeprint.Tree, v jsonvalue.Value, opts TreeOptions, depth int) {
	for _, m := range v.Members() {
		addNodeForValue(branch, m.Key, m.Value, opts, depth)
	}
}

func buildArrayTree(branch treeprint.Tree, v jsonvalue.Value, opts TreeOptions, depth int) {
	for i, item := range v.Items() {
		addNodeForValue(branch, FormatArrayIndex(i, opts.ArrayStyle), item, opts, depth)
	}
}

// addNodeForValue adds a node or branch for a key-value pair.
func addNodeForValue(branch treeprint.Tree, key string, v jsonvalue.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(formatKeyValue(key, "..."))
		return
	}

	switch v.Kind() {
	case jsonvalue.Object:
		if v.Len() == 0 {
			addLeaf(branch, key, "{}", opts)
			return
		}
		child := branch.AddBranch(formatKeyOnly(key))
		buildObjectTree(child, v, opts, depth+1)
	case jsonvalue.Array:
		addArrayNode(branch, key, v, opts, depth)
	default:
		addLeaf(branch, key, formatScalarValue(v, opts), opts)
	}
}

func addLeaf(branch treeprint.Tree, key, value string, opts TreeOptions) {
	if opts.NoValues {
		branch.AddNode(formatKeyOnly(key))
		return
	}
	branch.AddNode(formatKeyValue(key, value))
}

// addArrayNode handles array nodes with appropriate inline/summary/expand logic.
func addArrayNode(branch treeprint.Tree, key string, v jsonvalue.Value, opts TreeOptions, depth int) {
	scalars := isScalarArray(v)
	switch {
	case v.Len() == 0:
		addLeaf(branch, key, "[]", opts)
	case !opts.ExpandArrays && scalars && v.Len() <= opts.MaxArrayInline:
		addLeaf(branch, key, formatInlineArray(v), opts)
	case !opts.ExpandArrays && scalars:
		addLeaf(branch, key, fmt.Sprintf("[%d items]", v.Len()), opts)
	default:
		child := branch.AddBranch(formatKeyOnly(key))
		buildArrayTree(child, v, opts, depth+1)
	}
}

// isScalarArray returns true if no element is an object or array.
func isScalarArray(v jsonvalue.Value) bool {
	for _, item := range v.Items() {
		if item.IsContainer() {
			return false
		}
	}
	return true
}

// formatInlineArray formats a scalar array as [a, b, c].
func formatInlineArray(v jsonvalue.Value) string {
	items := v.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatScalarSimple(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatScalarValue formats a primitive, truncated to MaxStringLen columns.
func formatScalarValue(v jsonvalue.Value, opts TreeOptions) string {
	s := formatScalarSimple(v)
	if opts.MaxStringLen <= 0 || runewidth.StringWidth(s) <= opts.MaxStringLen {
		return s
	}
	if opts.MaxStringLen <= 3 {
		return "..."
	}
	return runewidth.Truncate(s, opts.MaxStringLen, "...")
}

// formatScalarSimple renders strings unquoted and everything else as its
// JSON literal.
func formatScalarSimple(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.String:
		return v.Str()
	case jsonvalue.Invalid:
		return "undefined"
	default:
		return v.Literal()
	}
}
