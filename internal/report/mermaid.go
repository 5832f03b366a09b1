package report

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/jtx/pkg/tree"
)

// MermaidOptions controls Mermaid diagram output.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD, LR, BT or RL. Default TD.
	Direction string
	// NoValues hides leaf values (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen truncates leaf values (0 or negative = unlimited).
	MaxStringLen int
}

// AccessedClass is the class assigned to nodes with a non-zero count.
const AccessedClass = "accessed"

type mermaidBuilder struct {
	lines    []string
	accessed []string
	nodeID   int
	opts     MermaidOptions
}

// Mermaid renders n as a flowchart. Every node label carries its access
// count, and nodes that were accessed are put in AccessedClass.
func Mermaid(n *tree.Node, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines: []string{"graph " + opts.Direction},
		opts:  opts,
	}
	if n != nil {
		rootID := b.nextID()
		b.addNode(rootID, "root", n)
		b.children(rootID, n, 0)
	}
	if len(b.accessed) > 0 {
		b.lines = append(b.lines,
			fmt.Sprintf("    classDef %s fill:#a6e22e,stroke:#272822,color:#272822", AccessedClass),
			fmt.Sprintf("    class %s %s", strings.Join(b.accessed, ","), AccessedClass),
		)
	}
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

func (b *mermaidBuilder) addNode(id, key string, n *tree.Node) {
	label := key
	if !n.IsContainer() && !b.opts.NoValues {
		label += ": " + b.formatScalar(n.Scalar)
	}
	label = fmt.Sprintf("%s (%d)", label, n.Accessed)
	b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, escapeLabel(label)))
	if n.Accessed > 0 {
		b.accessed = append(b.accessed, id)
	}
}

func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

func (b *mermaidBuilder) children(parentID string, n *tree.Node, depth int) {
	if len(n.Children) == 0 {
		return
	}
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		id := b.nextID()
		b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, "..."))
		b.addEdge(parentID, id)
		return
	}
	for _, c := range n.Children {
		id := b.nextID()
		key := c.Key
		if n.Kind == tree.Array {
			key = "[" + key + "]"
		}
		b.addNode(id, key, c.Node)
		b.addEdge(parentID, id)
		b.children(id, c.Node, depth+1)
	}
}

func (b *mermaidBuilder) formatScalar(v any) string {
	s := tree.FormatScalar(v)
	maxLen := b.opts.MaxStringLen
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// escapeLabel makes a label safe inside a quoted Mermaid node.
func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, `'`)
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.ReplaceAll(label, "\r", "")
}
