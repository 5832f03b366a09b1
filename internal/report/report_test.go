package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/internal/viewer"
	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/loader"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

func sampleViewer(mode tree.Mode) *viewer.Viewer {
	doc := &loader.Document{
		Value: tree.ObjectValue(
			tree.F("x", tree.ObjectValue(tree.F("y", tree.IntValue(1)), tree.F("z", tree.IntValue(2)))),
			tree.F("once", tree.StringValue("hello")),
		),
		Log: accesslog.Log{
			"x.y":  {Count: 4, Traces: []string{"trace1\n  at f (a.js:1)", "trace2"}},
			"x.z":  {Count: 2},
			"once": {Count: 1},
		},
	}
	return viewer.New(doc, mode)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleViewer(tree.ModeAll), Options{})

	want := strings.Join([]string{
		"# JSON Trace Explorer",
		"",
		"Filter: **Show All**",
		"",
		"- root {2} (accessed 0)",
		"    - x {2} (accessed 0)",
		"        - y: `1` (accessed [4](#trace-x-y))",
		"        - z: `2` (accessed [2](#trace-x-z))",
		"    - once: `\"hello\"` (accessed [1](#trace-once))",
		"",
		"## Stack Traces",
		"",
		"### x.y {#trace-x-y}",
		"",
		"Accessed 4 time(s).",
		"",
		"**#1**",
		"",
		"```text",
		"trace1",
		"  at f (a.js:1)",
		"```",
		"",
	}, "\n")
	assert.True(t, strings.HasPrefix(md, want), md)
	assert.Contains(t, md, "### x.z {#trace-x-z}\n\nAccessed 2 time(s).\n\n_No stack traces recorded._\n")
	assert.Contains(t, md, "### once {#trace-once}")
}

func TestMarkdown_AccessedFilter(t *testing.T) {
	md := Markdown(sampleViewer(tree.ModeAccessed), Options{Title: "Run 1"})
	assert.True(t, strings.HasPrefix(md, "# Run 1\n\nFilter: **Show Only Accessed**\n"))
	assert.NotContains(t, md, "once")
}

func TestMarkdown_NoLinks(t *testing.T) {
	v := viewer.New(&loader.Document{Value: tree.ObjectValue(tree.F("a", tree.BoolValue(true)))}, tree.ModeAll)
	md := Markdown(v, Options{})
	assert.NotContains(t, md, TracesHeading)
	assert.Contains(t, md, "    - a: `true` (accessed 0)\n")
}

func TestMarkdown_WrappersLayout(t *testing.T) {
	md := Markdown(sampleViewer(tree.ModeAll), Options{Tree: jsontree.Options{Wrappers: true}})
	assert.Contains(t, md, "- accessed: [4](#trace-x-y)")
	assert.Contains(t, md, "- value: `1`")
}

func TestMarkdown_EscapesKeysAndFences(t *testing.T) {
	doc := &loader.Document{
		Value: tree.ObjectValue(tree.F("a_b", tree.StringValue("x"))),
		Log:   accesslog.Log{"a_b": {Count: 2, Traces: []string{"uses ``` inside"}}},
	}
	md := Markdown(viewer.New(doc, tree.ModeAll), Options{})
	assert.Contains(t, md, `- a\_b: `)
	assert.Contains(t, md, "````text\nuses ``` inside\n````")
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "trace-root", Anchor(""))
	assert.Equal(t, "trace-a-b-0", Anchor("a.b.0"))
	assert.Equal(t, "trace-weird_key", Anchor("weird_key!"))
}

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`x`", codeSpan("x"))
	assert.Equal(t, "`` a`b ``", codeSpan("a`b"))
}

func TestHTML(t *testing.T) {
	page := string(HTML(sampleViewer(tree.ModeAll), Options{Title: "A <b> run"}))

	require.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "<title>A &lt;b&gt; run</title>")
	assert.Contains(t, page, `id="trace-x-y"`)
	assert.Contains(t, page, `href="#trace-x-y"`)
	assert.Contains(t, page, "<ul>")
	assert.Contains(t, page, "at f (a.js:1)")
	assert.True(t, strings.HasSuffix(page, "</html>\n"))
}

func TestMermaid(t *testing.T) {
	v := sampleViewer(tree.ModeAll)
	out := Mermaid(v.Displayed(), MermaidOptions{})

	want := strings.Join([]string{
		"graph TD",
		`    n0["root (0)"]`,
		`    n1["x (0)"]`,
		"    n0 --> n1",
		`    n2["y: 1 (4)"]`,
		"    n1 --> n2",
		`    n3["z: 2 (2)"]`,
		"    n1 --> n3",
		`    n4["once: hello (1)"]`,
		"    n0 --> n4",
		"    classDef accessed fill:#a6e22e,stroke:#272822,color:#272822",
		"    class n2,n3,n4 accessed",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestMermaid_Options(t *testing.T) {
	n := tree.Annotate(tree.ObjectValue(
		tree.F("list", tree.ArrayValue(tree.StringValue(`say "hi"`))),
		tree.F("deep", tree.ObjectValue(tree.F("er", tree.IntValue(1)))),
	), nil)

	out := Mermaid(n, MermaidOptions{Direction: "LR", MaxStringLen: 6})
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, `["[0]: say... (0)"]`)
	assert.NotContains(t, out, "classDef")

	out = Mermaid(n, MermaidOptions{NoValues: true, MaxDepth: 1})
	assert.Contains(t, out, `["..."]`)
	assert.NotContains(t, out, "say")

	assert.Equal(t, "graph TD\n", Mermaid(nil, MermaidOptions{}))
}
