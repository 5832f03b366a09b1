package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// padRight pads s with spaces to exactly width display cells, truncating
// when it is wider.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := runewidth.StringWidth(s); w > width {
		return runewidth.Truncate(s, width, "")
	} else if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncateWidth cuts s to width display cells with an ellipsis.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// wrapLines hard wraps every line of s to width display cells. Tabs are
// expanded first since their width is unknown.
func wrapLines(s string, width int) []string {
	s = strings.ReplaceAll(s, "\t", "    ")
	var out []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if line == "" {
			out = append(out, "")
			continue
		}
		for runewidth.StringWidth(line) > width {
			head := runewidth.Truncate(line, width, "")
			if head == "" {
				break
			}
			out = append(out, head)
			line = line[len(head):]
		}
		out = append(out, line)
	}
	return out
}
