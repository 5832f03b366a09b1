package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/internal/report"
	"github.com/oakwood-commons/jtx/internal/ui"
	"github.com/oakwood-commons/jtx/internal/viewer"
)

// Output formats.
const (
	outputTree     = "tree"
	outputJSON     = "json"
	outputYAML     = "yaml"
	outputMarkdown = "markdown"
	outputHTML     = "html"
	outputMermaid  = "mermaid"
)

var outputFormats = []string{outputTree, outputJSON, outputYAML, outputMarkdown, outputHTML, outputMermaid}

func validOutput(format string) bool {
	return slices.Contains(outputFormats, format)
}

func outputNames() string {
	return strings.Join(outputFormats, "|")
}

type outputOptions struct {
	format  string
	tree    jsontree.Options
	theme   ui.Theme
	noColor bool
}

// writeOutput prints the viewer's displayed tree in the requested format.
func writeOutput(w io.Writer, v *viewer.Viewer, o outputOptions) error {
	switch o.format {
	case outputJSON:
		return writeJSON(w, v.Displayed())
	case outputYAML:
		return writeYAML(w, v.Displayed())
	case outputMarkdown:
		_, err := io.WriteString(w, report.Markdown(v, report.Options{Tree: o.tree}))
		return err
	case outputHTML:
		_, err := w.Write(report.HTML(v, report.Options{Tree: o.tree}))
		return err
	case outputMermaid:
		_, err := io.WriteString(w, report.Mermaid(v.Displayed(), report.MermaidOptions{
			MaxDepth:     o.tree.MaxDepth,
			MaxStringLen: o.tree.MaxStringLen,
		}))
		return err
	default:
		_, err := io.WriteString(w, jsontree.Render(v.Displayed(), o.tree, v.RenderValue, o.theme.TreeStyles(o.noColor)))
		return err
	}
}

// writeData prints plain data such as an expression result. Only json is
// honored; every other format prints YAML.
func writeData(w io.Writer, data any, format string) error {
	if format == outputJSON {
		return writeJSON(w, data)
	}
	return writeYAML(w, data)
}

func writeJSON(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

func writeYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
