package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jtx/internal/limiter"
	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/logger"
)

// pathRow is one line of `jtx paths`.
type pathRow struct {
	Path   string `json:"path" yaml:"path"`
	Count  int    `json:"count" yaml:"count"`
	Traces int    `json:"traces" yaml:"traces"`
}

func newPathsCmd() *cobra.Command {
	var (
		logFile  string
		minCount int
		sortBy   string
		format   string
		limit    limiter.Config
	)
	cmd := &cobra.Command{
		Use:   "paths <file>",
		Short: "List the logged paths with their counts",
		Long: `List every path of the access log with its count and the number of
recorded stack traces, hottest first. Use "-" as the file to read stdin.`,
		Example: "\n  jtx paths trace.json --limit 10\n  jtx paths trace.json --min-count 2 --sort path\n",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := limit.Validate(); err != nil {
				return usageError{err: err}
			}
			if sortBy != "count" && sortBy != "path" {
				return usageError{err: fmt.Errorf("invalid --sort %q: valid values are count|path", sortBy)}
			}
			if format != "text" && format != outputJSON && format != outputYAML {
				return usageError{err: fmt.Errorf("invalid --output %q: valid values are text|json|yaml", format)}
			}
			lgr := logger.FromContext(commandContext(cmd))
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			doc, err := loadDocument(in, logFile, *lgr)
			if err != nil {
				return err
			}
			floor := math.MinInt
			if cmd.Flags().Changed("min-count") {
				floor = minCount
			}
			rows := limiter.Apply(limit, pathRows(doc.Log, floor, sortBy == "count"))
			if format != "text" {
				return writeData(cmd.OutOrStdout(), rows, format)
			}
			return writePathTable(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&logFile, "log", "", "access log file; replaces the document's log")
	cmd.Flags().IntVar(&minCount, "min-count", 0, "only list paths accessed at least this many times (default: all paths)")
	cmd.Flags().StringVar(&sortBy, "sort", "count", "order: count (descending) or path")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text|json|yaml")
	addLimitFlags(cmd, &limit, "paths")
	return cmd
}

func pathRows(log accesslog.Log, minCount int, byCount bool) []pathRow {
	rows := make([]pathRow, 0, len(log))
	for _, p := range log.Paths() {
		e := log[p]
		if e.Count < minCount {
			continue
		}
		rows = append(rows, pathRow{Path: p, Count: e.Count, Traces: len(e.Traces)})
	}
	if byCount {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	}
	return rows
}

func writePathTable(w io.Writer, rows []pathRow) error {
	pathWidth := runewidth.StringWidth("PATH")
	for _, r := range rows {
		pathWidth = max(pathWidth, runewidth.StringWidth(displayRowPath(r.Path)))
	}
	if _, err := fmt.Fprintf(w, "%s  %6s  %6s\n", runewidth.FillRight("PATH", pathWidth), "COUNT", "TRACES"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s  %6d  %6d\n", runewidth.FillRight(displayRowPath(r.Path), pathWidth), r.Count, r.Traces); err != nil {
			return err
		}
	}
	return nil
}

func displayRowPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
