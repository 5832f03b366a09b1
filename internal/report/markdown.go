// Package report exports the displayed tree in static formats: a markdown
// document with a stack trace section per clickable path, the same
// document rendered to HTML, and a Mermaid flowchart.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/internal/viewer"
	"github.com/oakwood-commons/jtx/pkg/settings"
)

// TracesHeading titles the stack trace section.
const TracesHeading = "Stack Traces"

// Options controls markdown and HTML export.
type Options struct {
	// Title defaults to the application title.
	Title string
	Tree  jsontree.Options
}

func (o Options) title() string {
	if o.Title == "" {
		return settings.AppTitle
	}
	return o.Title
}

// Markdown renders the viewer's displayed tree as a nested list. Each
// clickable count links to a heading under the stack trace section that
// holds the traces recorded for its path.
func Markdown(v *viewer.Viewer, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(opts.title()))
	fmt.Fprintf(&b, "Filter: **%s**\n\n", viewer.ModeLabel(v.Mode()))

	var links []string
	seen := map[string]bool{}
	for _, line := range jsontree.Walk(v.Displayed(), opts.Tree, v.RenderValue) {
		b.WriteString(strings.Repeat("    ", line.Depth))
		b.WriteString("- ")
		b.WriteString(label(line))
		b.WriteString("\n")
		if c, ok := line.Link(); ok && !seen[c.Link] {
			seen[c.Link] = true
			links = append(links, c.Link)
		}
	}
	if len(links) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "\n## %s\n", TracesHeading)
	for _, path := range links {
		fmt.Fprintf(&b, "\n### %s {#%s}\n\n", escape(displayPath(path)), Anchor(path))
		traces := v.Log().Traces(path)
		fmt.Fprintf(&b, "Accessed %d time(s).\n\n", v.Log().Count(path))
		if len(traces) == 0 {
			b.WriteString("_No stack traces recorded._\n")
			continue
		}
		for i, trace := range traces {
			fmt.Fprintf(&b, "**#%d**\n\n", i+1)
			fence := codeFence(trace)
			fmt.Fprintf(&b, "%stext\n%s\n%s\n\n", fence, strings.TrimRight(trace, "\n"), fence)
		}
	}
	return b.String()
}

func label(line jsontree.Line) string {
	if line.Truncated {
		return "..."
	}
	var b strings.Builder
	b.WriteString(escape(line.Key))
	switch {
	case line.Summary != "":
		b.WriteString(" ")
		b.WriteString(line.Summary)
	case line.Value != nil && line.Value.Linked:
		b.WriteString(": ")
		b.WriteString(link(*line.Value))
	case line.Value != nil:
		b.WriteString(": ")
		b.WriteString(codeSpan(line.Value.Text))
	}
	if c := line.Accessed; c != nil {
		text := c.Text
		if c.Linked {
			text = link(*c)
		}
		fmt.Fprintf(&b, " (accessed %s)", text)
	}
	return b.String()
}

func link(c jsontree.Cell) string {
	return fmt.Sprintf("[%s](#%s)", c.Text, Anchor(c.Link))
}

var anchorUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Anchor returns the heading id used for path's stack traces.
func Anchor(path string) string {
	if path == "" {
		return "trace-root"
	}
	return "trace-" + strings.Trim(anchorUnsafe.ReplaceAllString(path, "-"), "-")
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "{", `\{`, "}", `\}`,
)

func escape(s string) string {
	return markdownSpecial.Replace(s)
}

func codeSpan(s string) string {
	if !strings.Contains(s, "`") {
		return "`" + s + "`"
	}
	return "`` " + s + " ``"
}

// codeFence returns a backtick fence longer than any run inside s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
