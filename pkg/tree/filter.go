package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
)

// Mode selects which branches Filter keeps.
type Mode string

const (
	// ModeAll keeps the whole tree.
	ModeAll Mode = "all"
	// ModeAccessed keeps only branches whose path, or a path below it, was
	// accessed more than once.
	ModeAccessed Mode = "accessed"
)

// Modes lists the filter modes in selector order.
var Modes = []Mode{ModeAll, ModeAccessed}

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("invalid filter mode")

// ParseMode converts a name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAll:
		return ModeAll, nil
	case ModeAccessed:
		return ModeAccessed, nil
	}
	return "", fmt.Errorf("%w %q: valid values are all, accessed", ErrInvalidMode, s)
}

// Next returns the mode after m in selector order.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeAll
}

// Filter prunes n according to mode, starting at the root path.
func Filter(n *Node, log accesslog.Log, mode Mode) *Node {
	return FilterAt(n, log, mode, "")
}

// FilterAt is Filter for a node living at path. Scalars and nil pass
// through unchanged; containers are copied with only the kept children.
// n is never modified.
func FilterAt(n *Node, log accesslog.Log, mode Mode, path string) *Node {
	if !n.IsContainer() {
		return n
	}
	out := &Node{Kind: n.Kind, Accessed: n.Accessed, Children: make([]Child, 0, len(n.Children))}
	for _, c := range n.Children {
		childPath := JoinPath(path, c.Key)
		if !keep(log, mode, childPath) {
			continue
		}
		out.Children = append(out.Children, Child{Key: c.Key, Node: FilterAt(c.Node, log, mode, childPath)})
	}
	return out
}

func keep(log accesslog.Log, mode Mode, path string) bool {
	switch mode {
	case ModeAll:
		return true
	case ModeAccessed:
		return log.AccessedWithin(path)
	default:
		return false
	}
}
