package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Keys of the wrapped {value, accessed} form of a node.
const (
	ValueKey    = "value"
	AccessedKey = "accessed"
)

// Wrapped returns n as plain Go data in the {value, accessed} form, for
// consumers such as expression evaluation. Object key order is lost.
func (n *Node) Wrapped() map[string]any {
	if n == nil {
		return map[string]any{ValueKey: nil, AccessedKey: int64(0)}
	}
	var inner any
	switch n.Kind {
	case Array:
		items := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			items = append(items, c.Node.Wrapped())
		}
		inner = items
	case Object:
		fields := make(map[string]any, len(n.Children))
		for _, c := range n.Children {
			fields[c.Key] = c.Node.Wrapped()
		}
		inner = fields
	default:
		inner = n.Scalar
	}
	return map[string]any{ValueKey: inner, AccessedKey: int64(n.Accessed)}
}

// MarshalJSON writes the wrapped form with object keys in document order.
// Filtered arrays are written as objects keyed by original index when
// elements were pruned, so indices stay meaningful.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteString(`{"` + ValueKey + `":`)
	switch {
	case n.Kind == Array && denseArray(n):
		buf.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.Node.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case n.Kind.IsContainer():
		buf.WriteByte('{')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := c.Node.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case !finite(n.Scalar):
		// JSON has no NaN or Infinity; write them the way JSON.stringify does.
		buf.WriteString("null")
	default:
		raw, err := json.Marshal(n.Scalar)
		if err != nil {
			return fmt.Errorf("marshal scalar: %w", err)
		}
		buf.Write(raw)
	}
	buf.WriteString(`,"` + AccessedKey + `":` + strconv.Itoa(n.Accessed) + "}")
	return nil
}

// MarshalYAML builds an ordered YAML mapping of the wrapped form.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	var inner *yaml.Node
	switch {
	case n.Kind == Array && denseArray(n):
		inner = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range n.Children {
			inner.Content = append(inner.Content, c.Node.yamlNode())
		}
	case n.Kind.IsContainer():
		inner = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, c := range n.Children {
			inner.Content = append(inner.Content, stringNode(c.Key), c.Node.yamlNode())
		}
	default:
		inner = scalarNode(n.Kind, n.Scalar)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			stringNode(ValueKey), inner,
			stringNode(AccessedKey), {Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n.Accessed)},
		},
	}
}

// denseArray reports whether an array node still holds indices 0..n-1.
func denseArray(n *Node) bool {
	for i, c := range n.Children {
		if c.Key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarNode(kind Kind, v any) *yaml.Node {
	switch kind {
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: FormatScalar(v)}
	case Number:
		tag := "!!float"
		if _, ok := v.(int64); ok {
			tag = "!!int"
		}
		if f, ok := v.(float64); ok && !finite(f) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: yamlNonFinite(f)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: FormatScalar(v)}
	case String:
		s, _ := v.(string)
		return stringNode(s)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// FormatScalar renders a scalar the way JSON would, without quoting strings.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if math.Abs(val) < 1e15 && val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func finite(v any) bool {
	f, ok := v.(float64)
	return !ok || !(math.IsNaN(f) || math.IsInf(f, 0))
}

func yamlNonFinite(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case f > 0:
		return ".inf"
	default:
		return "-.inf"
	}
}
