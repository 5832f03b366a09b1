package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jtx/internal/viewer"
)

const tracePanelTitle = "Stack Traces"

// tracePanel is the side panel of the open selection.
type tracePanel struct {
	ScrollTop int // first visible body line
}

func (p *tracePanel) reset() { p.ScrollTop = 0 }

func (p *tracePanel) scroll(delta int) {
	p.ScrollTop += delta
	if p.ScrollTop < 0 {
		p.ScrollTop = 0
	}
}

// View draws sel as a bordered box of the given outer size. Body lines that
// do not fit are reached by scrolling; ScrollTop is clamped to the content.
func (p *tracePanel) View(sel *viewer.Selection, width, height int, theme Theme, noColor bool) string {
	innerW := width - 4 // border + padding
	innerH := height - 2
	if innerW < 8 {
		innerW = 8
	}
	if innerH < 3 {
		innerH = 3
	}

	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle()
	if !noColor {
		title = title.Foreground(theme.PanelTitle)
		muted = muted.Foreground(theme.MutedColor)
	}

	var body []string
	body = append(body, truncateWidth("path: "+displayPath(sel.Path), innerW))
	if len(sel.Traces) == 0 {
		body = append(body, "", muted.Render("No stack traces recorded."))
	}
	for i, trace := range sel.Traces {
		body = append(body, "", muted.Render(fmt.Sprintf("#%d", i+1)))
		body = append(body, wrapLines(trace, innerW)...)
	}

	room := innerH - 2 // title and footer
	if p.ScrollTop > len(body)-room {
		p.ScrollTop = len(body) - room
	}
	if p.ScrollTop < 0 {
		p.ScrollTop = 0
	}
	end := min(p.ScrollTop+room, len(body))
	visible := body[p.ScrollTop:end]

	hint := "esc/x close · y copy"
	if len(body) > room {
		hint = fmt.Sprintf("%d-%d/%d · J/K scroll · ", p.ScrollTop+1, end, len(body)) + hint
	}
	footer := muted.Render(truncateWidth(hint, innerW))

	lines := make([]string, 0, innerH)
	lines = append(lines, title.Render(tracePanelTitle))
	lines = append(lines, visible...)
	for len(lines) < innerH-1 {
		lines = append(lines, "")
	}
	lines = append(lines, footer)

	box := lipgloss.NewStyle().
		Border(theme.border()).
		Padding(0, 1).
		Width(width).
		Height(height)
	if !noColor {
		box = box.BorderForeground(theme.BorderColor)
	}
	return box.Render(strings.Join(lines, "\n"))
}
