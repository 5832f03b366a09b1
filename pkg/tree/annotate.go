package tree

import (
	"strconv"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
)

// Node is a value wrapped with its access count. A container node's
// children are themselves wrapped, so the shape mirrors the source value.
type Node struct {
	Kind     Kind
	Scalar   any
	Children []Child
	Accessed int
}

// Child is a keyed child of a container node. Array children use their
// stringified index as the key.
type Child struct {
	Key  string
	Node *Node
}

// IsContainer reports whether n holds children.
func (n *Node) IsContainer() bool {
	return n != nil && n.Kind.IsContainer()
}

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Key == key {
			return c.Node, true
		}
	}
	return nil, false
}

// At walks a dot path from n. The empty path is n itself.
func (n *Node) At(path string) (*Node, bool) {
	cur := n
	for _, seg := range SplitPath(path) {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Annotate wraps every node of v with its access count from log, starting
// at the root path.
func Annotate(v Value, log accesslog.Log) *Node {
	return AnnotateAt(v, log, "")
}

// AnnotateAt is Annotate for a value living at path.
func AnnotateAt(v Value, log accesslog.Log, path string) *Node {
	n := &Node{Kind: v.Kind, Accessed: log.Count(path)}
	switch v.Kind {
	case Array:
		n.Children = make([]Child, 0, len(v.Items))
		for i, item := range v.Items {
			key := strconv.Itoa(i)
			n.Children = append(n.Children, Child{Key: key, Node: AnnotateAt(item, log, JoinPath(path, key))})
		}
	case Object:
		n.Children = make([]Child, 0, len(v.Fields))
		for _, f := range v.Fields {
			n.Children = append(n.Children, Child{Key: f.Key, Node: AnnotateAt(f.Value, log, JoinPath(path, f.Key))})
		}
	default:
		n.Scalar = v.Scalar
	}
	return n
}

// Value strips the access counts and returns the underlying value.
func (n *Node) Value() Value {
	if n == nil {
		return NullValue()
	}
	switch n.Kind {
	case Array:
		items := make([]Value, 0, len(n.Children))
		for _, c := range n.Children {
			items = append(items, c.Node.Value())
		}
		return ArrayValue(items...)
	case Object:
		fields := make([]Field, 0, len(n.Children))
		for _, c := range n.Children {
			fields = append(fields, F(c.Key, c.Node.Value()))
		}
		return ObjectValue(fields...)
	default:
		return Value{Kind: n.Kind, Scalar: n.Scalar}
	}
}
