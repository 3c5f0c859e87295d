package loader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

var jsonNumberPattern = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// loadYAML decodes every document in input through yaml.Node so mapping order
// is preserved.
func loadYAML(input string) ([]jsonvalue.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var docs []jsonvalue.Value
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}
		docs = append(docs, fromYAMLNode(&node))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in YAML input")
	}
	return docs, nil
}

func fromYAMLNode(n *yaml.Node) jsonvalue.Value {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.NullValue()
		}
		return fromYAMLNode(n.Content[0])
	case yaml.MappingNode:
		members := make([]jsonvalue.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			members = append(members, jsonvalue.Member{
				Key:   yamlKey(n.Content[i]),
				Value: fromYAMLNode(n.Content[i+1]),
			})
		}
		return jsonvalue.ObjectValue(members...)
	case yaml.SequenceNode:
		items := make([]jsonvalue.Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, fromYAMLNode(c))
		}
		return jsonvalue.ArrayValue(items...)
	case yaml.AliasNode:
		if n.Alias == nil {
			return jsonvalue.NullValue()
		}
		return fromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return jsonvalue.NullValue()
	}
}

func yamlKey(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return fromYAMLNode(n).Compact()
}

func fromYAMLScalar(n *yaml.Node) jsonvalue.Value {
	switch n.ShortTag() {
	case "!!null":
		return jsonvalue.NullValue()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return jsonvalue.BoolValue(b)
		}
	case "!!int":
		if jsonNumberPattern.MatchString(n.Value) {
			return jsonvalue.NumberValue(n.Value)
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return jsonvalue.IntValue(i)
		}
	case "!!float":
		if jsonNumberPattern.MatchString(n.Value) {
			return jsonvalue.NumberValue(n.Value)
		}
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return jsonvalue.FloatValue(f)
		}
	}
	return jsonvalue.StringValue(n.Value)
}

// loadTOML decodes a TOML document. Tables come back with sorted keys.
func loadTOML(input string) ([]jsonvalue.Value, error) {
	var data map[string]interface{}
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []jsonvalue.Value{jsonvalue.FromInterface(data)}, nil
}
