// Package viewer holds the explorer state: the active filter mode and the
// selected stack traces. It also supplies the render hook that turns
// access counts into clickable cells.
package viewer

import (
	"slices"
	"strings"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/loader"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

// Selection is the set of stack traces opened by clicking a count.
type Selection struct {
	Path   string
	Traces []string
}

// Viewer is not safe for concurrent use.
type Viewer struct {
	value     tree.Value
	log       accesslog.Log
	annotated *tree.Node

	mode      tree.Mode
	selection *Selection
}

// New annotates doc once and starts in mode with nothing selected.
func New(doc *loader.Document, mode tree.Mode) *Viewer {
	v := &Viewer{mode: mode, log: accesslog.Log{}}
	if doc != nil {
		v.value = doc.Value
		if doc.Log != nil {
			v.log = doc.Log
		}
	}
	v.annotated = tree.Annotate(v.value, v.log)
	return v
}

// Annotated returns the unfiltered annotated tree.
func (v *Viewer) Annotated() *tree.Node { return v.annotated }

// Log returns the access log.
func (v *Viewer) Log() accesslog.Log { return v.log }

// Displayed filters the annotated tree with the current mode.
func (v *Viewer) Displayed() *tree.Node {
	return tree.Filter(v.annotated, v.log, v.mode)
}

func (v *Viewer) Mode() tree.Mode { return v.mode }

func (v *Viewer) SetMode(m tree.Mode) { v.mode = m }

// ToggleMode switches between the two filter modes.
func (v *Viewer) ToggleMode() tree.Mode {
	v.mode = v.mode.Next()
	return v.mode
}

// Selection returns the open selection, or nil.
func (v *Viewer) Selection() *Selection { return v.selection }

// RenderValue is the jsontree render hook. Positive counts become links to
// the path they were recorded under; everything else is shown as is.
func (v *Viewer) RenderValue(raw any, keyPath []string) jsontree.Cell {
	if len(keyPath) > 0 && keyPath[0] == tree.AccessedKey {
		if n, ok := raw.(int); ok && n > 0 {
			return jsontree.Cell{Text: tree.FormatScalar(n), Link: TracePath(keyPath), Linked: true}
		}
	}
	return jsontree.Plain(raw, keyPath)
}

// TracePath converts a hook key path back into a log path. The nearest
// segment ("accessed") and the farthest ("root") are dropped, the rest is
// reversed and the "value" wrapper segments in between keys are skipped.
//
//	["accessed", "b", "value", "a", "value", "root"] -> "a.b"
func TracePath(keyPath []string) string {
	if len(keyPath) <= 2 {
		return ""
	}
	inner := slices.Clone(keyPath[1 : len(keyPath)-1])
	slices.Reverse(inner)
	keys := make([]string, 0, len(inner)/2)
	for i := 1; i < len(inner); i += 2 {
		keys = append(keys, inner[i])
	}
	return strings.Join(keys, tree.PathSeparator)
}

// Activate opens the traces of a linked cell. Other cells are ignored.
func (v *Viewer) Activate(c jsontree.Cell) bool {
	if !c.Linked {
		return false
	}
	v.Open(c.Link)
	return true
}

// Open selects the traces recorded under path, replacing any selection.
func (v *Viewer) Open(path string) *Selection {
	v.selection = &Selection{Path: path, Traces: v.log.Traces(path)}
	return v.selection
}

// Close clears the selection.
func (v *Viewer) Close() { v.selection = nil }

// ModeLabel is the selector text for a mode.
func ModeLabel(m tree.Mode) string {
	switch m {
	case tree.ModeAll:
		return "Show All"
	case tree.ModeAccessed:
		return "Show Only Accessed"
	default:
		return string(m)
	}
}

// RowPath is the log path of the node a laid out row belongs to. Rows for
// a node's own value or accessed field have an even length key path; the
// field segment is dropped first.
func RowPath(keyPath []string) string {
	if len(keyPath)%2 == 0 && len(keyPath) > 0 {
		keyPath = keyPath[1:]
	}
	return TracePath(append([]string{tree.AccessedKey}, keyPath...))
}
