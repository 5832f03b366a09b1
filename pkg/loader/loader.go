// Package loader reads trace documents: a JSON or YAML file holding the
// inspected value and the access log recorded against it.
//
// Expected shape:
//
//	{
//	  "value": { ... any JSON ... },
//	  "log":   { "path.to.key": 3, "path.to.other": ["stack 1", "stack 2"] }
//	}
//
// Both JSON and YAML inputs are decoded through yaml.Node so object keys
// keep their document order.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

// MaxDepth bounds how deeply nested a document may be.
const MaxDepth = 10000

// MaxNodes bounds how many values a document may expand to, counting
// every reuse of a YAML alias.
const MaxNodes = 1_000_000

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingValue is returned when a document has no "value" key.
	ErrMissingValue = errors.New(`document has no "value" key`)
	// ErrTooDeep is returned when nesting exceeds MaxDepth.
	ErrTooDeep = fmt.Errorf("document nesting exceeds %d levels", MaxDepth)
	// ErrTooLarge is returned when alias expansion exceeds MaxNodes.
	ErrTooLarge = fmt.Errorf("document expands to more than %d values", MaxNodes)
)

// Keys of the top-level document.
const (
	ValueKey = "value"
	LogKey   = "log"
)

// Document is a parsed trace document.
type Document struct {
	Value tree.Value
	Log   accesslog.Log
}

// ParseDocument parses a trace document from JSON or YAML bytes.
func ParseDocument(data []byte) (*Document, error) {
	return ParseDocumentWithLogger(data, logr.Discard())
}

// ParseDocumentWithLogger is ParseDocument with debug logging.
func ParseDocumentWithLogger(data []byte, lgr logr.Logger) (*Document, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is %s, not an object", ErrMissingValue, kindName(root))
	}

	var valueNode, logNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		switch root.Content[i].Value {
		case ValueKey:
			valueNode = root.Content[i+1]
		case LogKey:
			logNode = root.Content[i+1]
		default:
			lgr.V(1).Info("ignoring unknown document key", "key", root.Content[i].Value)
		}
	}
	if valueNode == nil {
		return nil, ErrMissingValue
	}

	value, err := ValueFromYAML(valueNode)
	if err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	doc := &Document{Value: value, Log: accesslog.Log{}}
	if logNode != nil {
		log, err := logFromYAML(logNode)
		if err != nil {
			return nil, err
		}
		doc.Log = log
	}
	lgr.V(1).Info("parsed trace document", "root_kind", value.Kind.String(), "log_entries", len(doc.Log))
	return doc, nil
}

// LoadDocument reads and parses a trace document file.
func LoadDocument(path string) (*Document, error) {
	return LoadDocumentWithLogger(path, logr.Discard())
}

// LoadDocumentWithLogger is LoadDocument with debug logging.
func LoadDocumentWithLogger(path string, lgr logr.Logger) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	lgr.V(1).Info("read document", "path", path, "bytes", len(data))
	doc, err := ParseDocumentWithLogger(data, lgr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseLog parses a standalone access log: an object mapping paths to
// counts, trace lists or {count, traces} records.
func ParseLog(data []byte) (accesslog.Log, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}
	return logFromYAML(root)
}

// LoadLog reads and parses a standalone access log file.
func LoadLog(path string) (accesslog.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	log, err := ParseLog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

func decodeRoot(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON/YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyInput
	}
	return doc.Content[0], nil
}

func logFromYAML(n *yaml.Node) (accesslog.Log, error) {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return accesslog.Log{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("access log must be an object, got %s", kindName(n))
	}
	log := accesslog.Log{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var entry accesslog.Entry
		if err := entry.UnmarshalYAML(n.Content[i+1]); err != nil {
			return nil, fmt.Errorf("log entry %q: %w", n.Content[i].Value, err)
		}
		log[n.Content[i].Value] = entry
	}
	return log, nil
}

// ValueFromYAML converts a decoded YAML/JSON node into a tree.Value,
// keeping mapping order. Duplicate keys keep their first position and
// their last value.
func ValueFromYAML(n *yaml.Node) (tree.Value, error) {
	c := &converter{budget: MaxNodes}
	return c.value(n, 0)
}

type converter struct {
	budget int
}

func (c *converter) value(n *yaml.Node, depth int) (tree.Value, error) {
	if depth > MaxDepth {
		return tree.Value{}, ErrTooDeep
	}
	if c.budget--; c.budget < 0 {
		return tree.Value{}, ErrTooLarge
	}
	if n == nil {
		return tree.NullValue(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.NullValue(), nil
		}
		return c.value(n.Content[0], depth)
	case yaml.AliasNode:
		return c.value(n.Alias, depth+1)
	case yaml.MappingNode:
		fields := make([]tree.Field, 0, len(n.Content)/2)
		index := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := c.value(n.Content[i+1], depth+1)
			if err != nil {
				return tree.Value{}, err
			}
			if at, dup := index[key]; dup {
				fields[at].Value = v
				continue
			}
			index[key] = len(fields)
			fields = append(fields, tree.F(key, v))
		}
		return tree.ObjectValue(fields...), nil
	case yaml.SequenceNode:
		items := make([]tree.Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.value(item, depth+1)
			if err != nil {
				return tree.Value{}, err
			}
			items = append(items, v)
		}
		return tree.ArrayValue(items...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(n), nil
	default:
		return tree.NullValue(), nil
	}
}

func scalarFromYAML(n *yaml.Node) tree.Value {
	switch n.ShortTag() {
	case "!!null":
		return tree.NullValue()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return tree.BoolValue(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return tree.IntValue(i)
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return tree.FloatValue(f)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return tree.FloatValue(f)
		}
	}
	return tree.StringValue(n.Value)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for depth := 0; n != nil && n.Kind == yaml.AliasNode && n.Alias != nil && depth < MaxDepth; depth++ {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "an object"
	case yaml.SequenceNode:
		return "an array"
	case yaml.ScalarNode:
		return "a " + strings.TrimPrefix(n.ShortTag(), "!!")
	default:
		return "unknown"
	}
}
