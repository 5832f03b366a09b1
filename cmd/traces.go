package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jtx/internal/viewer"
	"github.com/oakwood-commons/jtx/pkg/logger"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

// traceReport is the json/yaml form of `jtx traces`.
type traceReport struct {
	Path   string   `json:"path" yaml:"path"`
	Count  *int     `json:"count,omitempty" yaml:"count,omitempty"`
	Traces []string `json:"traces" yaml:"traces"`
}

func newTracesCmd() *cobra.Command {
	var (
		logFile   string
		withCount bool
		format    string
	)
	cmd := &cobra.Command{
		Use:   "traces <file> <path>",
		Short: "Print the stack traces recorded for a path",
		Long: `Print the stack traces recorded for a dot path, the same list the
explorer opens when the path's count is clicked. Use "." for the root path
and "-" as the file to read stdin.`,
		Example: "\n  jtx traces trace.json items.0.name\n  jtx traces trace.json . --count -o json\n",
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != outputJSON && format != outputYAML {
				return usageError{err: fmt.Errorf("invalid --output %q: valid values are text|json|yaml", format)}
			}
			lgr := logger.FromContext(commandContext(cmd))
			in, err := openInput(cmd, args[:1])
			if err != nil {
				return err
			}
			doc, err := loadDocument(in, logFile, *lgr)
			if err != nil {
				return err
			}
			v := viewer.New(doc, tree.ModeAll)
			sel := v.Open(normalizePath(args[1]))

			rep := traceReport{Path: sel.Path, Traces: sel.Traces}
			if withCount {
				count := v.Log().Count(sel.Path)
				rep.Count = &count
			}
			if format != "text" {
				return writeData(cmd.OutOrStdout(), rep, format)
			}
			return writeTraceText(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&logFile, "log", "", "access log file; replaces the document's log")
	cmd.Flags().BoolVar(&withCount, "count", false, "also print the access count")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text|json|yaml")
	return cmd
}

// normalizePath accepts "." and "$" for the root and tolerates a leading dot.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "." || p == "$" {
		return ""
	}
	return strings.TrimPrefix(p, ".")
}

func writeTraceText(w io.Writer, rep traceReport) error {
	path := rep.Path
	if path == "" {
		path = "(root)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "path: %s\n", path)
	if rep.Count != nil {
		fmt.Fprintf(&b, "count: %d\n", *rep.Count)
	}
	if len(rep.Traces) == 0 {
		b.WriteString("No stack traces recorded.\n")
	}
	for i, trace := range rep.Traces {
		fmt.Fprintf(&b, "\n#%d\n%s\n", i+1, strings.TrimRight(trace, "\n"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
