package jsontree

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jtx/pkg/tree"
)

// Styles colors the static tree. The zero value is not usable; start from
// PlainStyles.
type Styles struct {
	Key     lipgloss.Style
	Value   lipgloss.Style
	Link    lipgloss.Style
	Muted   lipgloss.Style
	Summary lipgloss.Style
}

// PlainStyles renders without any ANSI sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Key: plain, Value: plain, Link: plain, Muted: plain, Summary: plain}
}

// Render draws the laid out tree as text.
func Render(n *tree.Node, opts Options, render RenderFunc, styles Styles) string {
	lines := Walk(n, opts, render)
	if len(lines) == 0 {
		return ""
	}

	root := treeprint.NewWithRoot(styles.Label(lines[0]))
	// branches[d] is the last branch seen at depth d.
	branches := []treeprint.Tree{root}
	for _, line := range lines[1:] {
		parent := branches[line.Depth-1]
		label := styles.Label(line)
		if line.Branch {
			b := parent.AddBranch(label)
			branches = append(branches[:line.Depth], b)
			continue
		}
		parent.AddNode(label)
	}
	return root.String()
}

// Label is the one-line text of a row: key, then summary or value, then
// the count. Linked counts are bracketed.
func (s Styles) Label(line Line) string {
	if line.Truncated {
		return s.Muted.Render("...")
	}
	var b strings.Builder
	b.WriteString(s.Key.Render(line.Key))
	switch {
	case line.Value != nil:
		b.WriteString(": ")
		b.WriteString(s.cell(*line.Value, s.Value))
	case line.Summary != "":
		b.WriteString(" ")
		b.WriteString(s.Summary.Render(line.Summary))
	}
	if line.Accessed != nil {
		b.WriteString(" ")
		b.WriteString(s.Count(*line.Accessed))
	}
	return b.String()
}

// Count renders an accessed cell: "[n]" when linked, "(n)" otherwise.
func (s Styles) Count(c Cell) string {
	if c.Linked {
		return s.Link.Render("[" + c.Text + "]")
	}
	return s.Muted.Render("(" + c.Text + ")")
}

func (s Styles) cell(c Cell, style lipgloss.Style) string {
	if c.Linked {
		return s.Link.Render("[" + c.Text + "]")
	}
	return style.Render(c.Text)
}
