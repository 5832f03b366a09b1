package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/jtx/internal/viewer"
)

// HTML renders the markdown report as a standalone page.
func HTML(v *viewer.Viewer, opts Options) []byte {
	return markdownToHTML([]byte(Markdown(v, opts)), opts.title())
}

func markdownToHTML(md []byte, title string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	body := markdown.Render(doc, renderer)

	var buf bytes.Buffer
	writeHeader(&buf, title)
	buf.Write(body)
	writeFooter(&buf)
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, title string) {
	fmt.Fprintf(buf, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 1000px; margin: 40px auto; padding: 0 20px; line-height: 1.5; color: #272822; }
    h1 { border-bottom: 2px solid #a6e22e; padding-bottom: 10px; }
    ul { list-style: none; padding-left: 1.2em; }
    a { color: #4e7a0a; font-weight: 600; }
    code { background: #f1f5f9; padding: 1px 5px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #272822; color: #f8f8f2; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
  </style>
</head>
<body>
`, template.HTMLEscapeString(title))
}

func writeFooter(buf *bytes.Buffer) {
	buf.WriteString(`</body>
</html>
`)
}
