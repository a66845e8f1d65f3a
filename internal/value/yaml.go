package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAMLNode decodes a yaml.Node into a Value, preserving map key order
// from the document (yaml.v3 mapping nodes are key/value pairs in document
// order), the same way the teacher's config.Step.UnmarshalYAML decodes
// directly from *yaml.Node instead of going through a generic interface{}.
func FromYAMLNode(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromYAMLNode(node.Content[0])
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	case yaml.SequenceNode:
		out := Array()
		for _, c := range node.Content {
			elem, err := FromYAMLNode(c)
			if err != nil {
				return Value{}, err
			}
			if err := out.Append(elem); err != nil {
				return Value{}, err
			}
		}
		return out, nil
	case yaml.MappingNode:
		out := Map()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			val, err := FromYAMLNode(valNode)
			if err != nil {
				return Value{}, err
			}
			if err := out.Set(keyNode.Value, val); err != nil {
				return Value{}, err
			}
		}
		return out, nil
	case yaml.AliasNode:
		return FromYAMLNode(node.Alias)
	default:
		return Null(), fmt.Errorf("value: unsupported yaml node kind %d", node.Kind)
	}
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	var decoded interface{}
	if err := node.Decode(&decoded); err != nil {
		return Value{}, fmt.Errorf("value: decode scalar: %w", err)
	}
	switch t := decoded.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Signed(int64(t)), nil
	case int64:
		return Signed(t), nil
	case uint64:
		return Unsigned(t), nil
	case float64:
		return Real(t), nil
	case string:
		return String(t), nil
	default:
		return String(node.Value), nil
	}
}
