// Package jsontree lays out an annotated tree the way a generic JSON tree
// widget would: every node is shown in its wrapped {value, accessed} form
// under a synthetic "root" key, and every painted leaf is passed through a
// caller supplied render hook together with its key path.
package jsontree

import (
	"strconv"

	"github.com/oakwood-commons/jtx/pkg/tree"
)

// RootKey is the synthetic key of the outermost node.
const RootKey = "root"

// Cell is the rendered form of one leaf value.
type Cell struct {
	Text string
	// Link is the target of a clickable cell.
	Link   string
	Linked bool
}

// RenderFunc renders a leaf. keyPath runs from the leaf up to RootKey,
// nearest segment first, and includes the wrapper's "value" and
// "accessed" segments.
type RenderFunc func(raw any, keyPath []string) Cell

// Plain renders every leaf as its formatted scalar.
func Plain(raw any, _ []string) Cell {
	return Cell{Text: tree.FormatScalar(raw)}
}

// Options controls the layout.
type Options struct {
	// Wrappers shows the literal {value, accessed} structure instead of
	// one line per node.
	Wrappers bool
	// MaxDepth limits line depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen truncates string scalars (0 or negative = unlimited).
	MaxStringLen int
}

// Line is one row of the laid out tree.
type Line struct {
	Depth int
	Key   string
	// KeyPath is the key path of the row itself, nearest first.
	KeyPath []string
	// Branch is set for rows that have child rows.
	Branch bool
	// Summary describes a container row, e.g. "{2}" or "[3]".
	Summary string
	// Value is the rendered scalar of a leaf row.
	Value *Cell
	// Accessed is the rendered count (compact layout only).
	Accessed *Cell
	// Truncated marks the "..." row emitted at MaxDepth.
	Truncated bool
}

// Link returns the first clickable cell of the row.
func (l Line) Link() (Cell, bool) {
	for _, c := range []*Cell{l.Accessed, l.Value} {
		if c != nil && c.Linked {
			return *c, true
		}
	}
	return Cell{}, false
}

// Walk lays out n and returns its rows in display order. A nil node yields
// no rows; a nil render uses Plain.
func Walk(n *tree.Node, opts Options, render RenderFunc) []Line {
	if n == nil {
		return nil
	}
	if render == nil {
		render = Plain
	}
	w := &walker{opts: opts, render: render}
	if opts.Wrappers {
		w.wrapped(n, RootKey, []string{RootKey}, 0)
	} else {
		w.compact(n, RootKey, []string{RootKey}, 0)
	}
	return w.lines
}

type walker struct {
	opts   Options
	render RenderFunc
	lines  []Line
}

// compact emits one row per wrapped node.
func (w *walker) compact(n *tree.Node, key string, path []string, depth int) {
	if w.cut(key, path, depth) {
		return
	}
	accessed := w.render(n.Accessed, push(path, tree.AccessedKey))
	line := Line{Depth: depth, Key: key, KeyPath: path, Accessed: &accessed}
	if !n.IsContainer() {
		value := w.leaf(n.Scalar, push(path, tree.ValueKey))
		line.Value = &value
		w.lines = append(w.lines, line)
		return
	}
	line.Summary = summary(n)
	line.Branch = len(n.Children) > 0
	w.lines = append(w.lines, line)

	valuePath := push(path, tree.ValueKey)
	for _, c := range n.Children {
		w.compact(c.Node, c.Key, push(valuePath, c.Key), depth+1)
	}
}

// wrapped emits the literal structure: the node row, then its value row
// (or value subtree) and its accessed row.
func (w *walker) wrapped(n *tree.Node, key string, path []string, depth int) {
	if w.cut(key, path, depth) {
		return
	}
	w.lines = append(w.lines, Line{Depth: depth, Key: key, KeyPath: path, Branch: true, Summary: "{2}"})

	valuePath := push(path, tree.ValueKey)
	if !n.IsContainer() {
		if !w.cut(tree.ValueKey, valuePath, depth+1) {
			value := w.leaf(n.Scalar, valuePath)
			w.lines = append(w.lines, Line{Depth: depth + 1, Key: tree.ValueKey, KeyPath: valuePath, Value: &value})
		}
	} else if !w.cut(tree.ValueKey, valuePath, depth+1) {
		w.lines = append(w.lines, Line{
			Depth:   depth + 1,
			Key:     tree.ValueKey,
			KeyPath: valuePath,
			Branch:  len(n.Children) > 0,
			Summary: summary(n),
		})
		for _, c := range n.Children {
			w.wrapped(c.Node, c.Key, push(valuePath, c.Key), depth+2)
		}
	}

	accessedPath := push(path, tree.AccessedKey)
	if !w.cut(tree.AccessedKey, accessedPath, depth+1) {
		accessed := w.render(n.Accessed, accessedPath)
		w.lines = append(w.lines, Line{Depth: depth + 1, Key: tree.AccessedKey, KeyPath: accessedPath, Value: &accessed})
	}
}

// cut emits a "..." row and reports true once depth reaches MaxDepth.
// Only the first row past the limit under a parent is kept.
func (w *walker) cut(key string, path []string, depth int) bool {
	if w.opts.MaxDepth <= 0 || depth < w.opts.MaxDepth {
		return false
	}
	if last := len(w.lines) - 1; last >= 0 && w.lines[last].Truncated && w.lines[last].Depth == depth {
		return true
	}
	w.lines = append(w.lines, Line{Depth: depth, Key: "...", KeyPath: path, Truncated: true})
	return true
}

func (w *walker) leaf(raw any, keyPath []string) Cell {
	if s, ok := raw.(string); ok && w.opts.MaxStringLen > 0 {
		raw = truncate(s, w.opts.MaxStringLen)
	}
	c := w.render(raw, keyPath)
	if _, ok := raw.(string); ok && !c.Linked {
		c.Text = strconv.Quote(c.Text)
	}
	return c
}

// push returns a new key path with seg as its nearest segment.
func push(path []string, seg string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, seg)
	return append(out, path...)
}

func summary(n *tree.Node) string {
	if n.Kind == tree.Array {
		return "[" + strconv.Itoa(len(n.Children)) + "]"
	}
	return "{" + strconv.Itoa(len(n.Children)) + "}"
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
