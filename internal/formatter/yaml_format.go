package formatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent                int
	LiteralBlockStrings   bool
	ExpandEscapedNewlines bool
}

// FormatYAML renders v as YAML in document order. Numbers keep their
// literal text. Multi-line strings can be emitted as literal blocks ("|") to
// preserve newlines.
func FormatYAML(v jsonvalue.Value, opts YAMLFormatOptions) (string, error) {
	node := YAMLNode(v)

	if opts.ExpandEscapedNewlines {
		expandEscapedNewlines(node)
	}
	if opts.LiteralBlockStrings {
		applyLiteralStyle(node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// YAMLNode converts v to a yaml.v3 node tree.
func YAMLNode(v jsonvalue.Value) *yaml.Node {
	switch v.Kind() {
	case jsonvalue.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				YAMLNode(m.Value))
		}
		return n
	case jsonvalue.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, YAMLNode(item))
		}
		return n
	case jsonvalue.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str()}
	case jsonvalue.Number:
		// Untagged so literals outside the int64 range are not annotated.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.NumberLiteral()}
	case jsonvalue.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Literal()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}

func expandEscapedNewlines(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\\n") {
		n.Value = strings.ReplaceAll(n.Value, "\\n", "\n")
	}
	for _, c := range n.Content {
		expandEscapedNewlines(c)
	}
}
