// Package ui is the interactive explorer: the laid out tree in a table,
// a trace panel for the selected count and the filter selector.
package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/internal/ui/table"
	"github.com/oakwood-commons/jtx/internal/viewer"
	"github.com/oakwood-commons/jtx/pkg/settings"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

const (
	defaultWidth        = 80
	defaultHeight       = 24
	defaultPanelPercent = 50
	hitsColumnWidth     = 8
)

// Options configures a Model.
type Options struct {
	AppName string
	Theme   Theme
	NoColor bool
	Tree    jsontree.Options
	// PanelPercent is the trace panel width as a share of the screen.
	PanelPercent int
	Width        int
	Height       int
	Logger       logr.Logger
}

// Model is the Bubble Tea model of the explorer.
type Model struct {
	viewer *viewer.Viewer
	table  *table.Model[jsontree.Line]
	panel  tracePanel
	help   help.Model
	keys   keyMap
	log    logr.Logger

	appName      string
	theme        Theme
	noColor      bool
	treeOpts     jsontree.Options
	panelPercent int

	width      int
	height     int
	bodyHeight int
	status     string
	quitting bool
}

// NewModel builds a model over v.
func NewModel(v *viewer.Viewer, opts Options) *Model {
	m := &Model{
		viewer:       v,
		keys:         keys,
		help:         help.New(),
		log:          opts.Logger,
		appName:      strings.TrimSpace(opts.AppName),
		theme:        opts.Theme,
		noColor:      opts.NoColor,
		treeOpts:     opts.Tree,
		panelPercent: opts.PanelPercent,
		width:        opts.Width,
		height:       opts.Height,
	}
	if m.log.GetSink() == nil {
		m.log = logr.Discard()
	}
	if m.appName == "" {
		m.appName = settings.AppTitle
	}
	if m.theme == (Theme{}) {
		m.theme = DefaultTheme()
	}
	if m.panelPercent <= 0 || m.panelPercent >= 100 {
		m.panelPercent = defaultPanelPercent
	}
	if m.width <= 0 {
		m.width = defaultWidth
	}
	if m.height <= 0 {
		m.height = defaultHeight
	}
	m.table = table.NewModel[jsontree.Line](m.columns(m.treeWidth()), lineRow)
	m.applyColorScheme()
	m.refresh()
	m.layout()
	return m
}

// Viewer exposes the underlying state.
func (m *Model) Viewer() *viewer.Viewer { return m.viewer }

// Status is the last status message.
func (m *Model) Status() string { return m.status }

// Quitting reports whether quit was requested.
func (m *Model) Quitting() bool { return m.quitting }

// SelectedLine returns the row under the cursor.
func (m *Model) SelectedLine() (jsontree.Line, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return jsontree.Line{}, false
	}
	return *row, true
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Open):
		m.openSelected()
	case key.Matches(msg, m.keys.Close):
		m.viewer.Close()
		m.panel.reset()
		m.status = ""
		m.layout()
	case m.viewer.Selection() != nil && key.Matches(msg, m.keys.TraceDown):
		m.panel.scroll(1)
	case m.viewer.Selection() != nil && key.Matches(msg, m.keys.TraceUp):
		m.panel.scroll(-1)
	case m.viewer.Selection() != nil && key.Matches(msg, m.keys.TracePageDown):
		m.panel.scroll(m.panelPage())
	case m.viewer.Selection() != nil && key.Matches(msg, m.keys.TracePageUp):
		m.panel.scroll(-m.panelPage())
	case key.Matches(msg, m.keys.Filter):
		mode := m.viewer.ToggleMode()
		m.log.V(1).Info("filter mode changed", "mode", string(mode))
		m.refresh()
		m.status = "Filter: " + viewer.ModeLabel(mode)
	case key.Matches(msg, m.keys.Wrappers):
		m.treeOpts.Wrappers = !m.treeOpts.Wrappers
		m.refresh()
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// openSelected is the click on a count: the row's linked cell, if any,
// opens its stack traces.
func (m *Model) openSelected() {
	line, ok := m.SelectedLine()
	if !ok {
		return
	}
	cell, ok := line.Link()
	if !ok {
		m.status = "no accesses recorded on this row"
		return
	}
	m.viewer.Activate(cell)
	m.panel.reset()
	sel := m.viewer.Selection()
	m.log.V(1).Info("opened stack traces", "path", sel.Path, "traces", len(sel.Traces))
	m.status = fmt.Sprintf("%d stack trace(s) for %s", len(sel.Traces), displayPath(sel.Path))
	m.layout()
}

func (m *Model) copySelection() {
	sel := m.viewer.Selection()
	if sel == nil {
		m.status = "no stack traces open"
		return
	}
	if err := CopyToClipboard(strings.Join(sel.Traces, "\n\n")); err != nil {
		m.log.Error(err, "copy to clipboard failed")
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied %d stack trace(s)", len(sel.Traces))
}

// refresh lays the displayed tree out again, keeping the cursor on the
// same row when it survives.
func (m *Model) refresh() {
	var keep string
	if line, ok := m.SelectedLine(); ok {
		keep = strings.Join(line.KeyPath, "\x00")
	}
	lines := jsontree.Walk(m.viewer.Displayed(), m.treeOpts, m.viewer.RenderValue)
	m.table.SetRows(lines)
	for i, l := range lines {
		if strings.Join(l.KeyPath, "\x00") == keep {
			m.table.SetCursor(i)
			return
		}
	}
	if m.table.Cursor() >= len(lines) {
		m.table.SetCursor(0)
	}
}

func (m *Model) panelWidth() int {
	if m.viewer.Selection() == nil {
		return 0
	}
	return m.width * m.panelPercent / 100
}

func (m *Model) treeWidth() int {
	w := m.width - m.panelWidth()
	if w < hitsColumnWidth+4 {
		w = hitsColumnWidth + 4
	}
	return w
}

func (m *Model) columns(width int) []table.Column {
	return []table.Column{
		{Title: "TREE", Width: width - hitsColumnWidth},
		{Title: "HITS", Width: hitsColumnWidth},
	}
}

// layout sizes the table to what header, status and help leave over.
func (m *Model) layout() {
	w := m.treeWidth()
	m.table.SetColumns(m.columns(w))
	h := m.height - 2 - lipgloss.Height(m.help.View(m.keys))
	if h < 3 {
		h = 3
	}
	m.table.SetSize(w, h)
	m.bodyHeight = h
}

// panelPage is half of the trace panel's visible body.
func (m *Model) panelPage() int {
	return max(1, (m.bodyHeight-4)/2)
}

func (m *Model) applyColorScheme() {
	m.table.SetColors(m.theme.HeaderFG, m.theme.SelectedFG, m.theme.SelectedBG)
	m.table.SetNoColor(m.noColor)
	if m.noColor {
		plain := lipgloss.NewStyle()
		m.help.Styles.ShortKey = plain
		m.help.Styles.ShortDesc = plain
		m.help.Styles.ShortSeparator = plain
		m.help.Styles.FullKey = plain
		m.help.Styles.FullDesc = plain
		m.help.Styles.FullSeparator = plain
		m.help.Styles.Ellipsis = plain
		return
	}
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(m.theme.KeyColor)
	m.help.Styles.FullKey = lipgloss.NewStyle().Foreground(m.theme.KeyColor)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(m.theme.MutedColor)
	m.help.Styles.FullDesc = lipgloss.NewStyle().Foreground(m.theme.MutedColor)
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws one frame.
func (m *Model) Render() string {
	body := m.table.View()
	if sel := m.viewer.Selection(); sel != nil {
		panel := m.panel.View(sel, m.panelWidth(), lipgloss.Height(body), m.theme, m.noColor)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	parts := []string{
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.help.View(m.keys),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(" " + m.appName + "  Filter: ")
	for i, mode := range tree.Modes {
		if i > 0 {
			b.WriteString("  ")
		}
		label := viewer.ModeLabel(mode)
		if mode == m.viewer.Mode() {
			label = "[" + label + "]"
		}
		b.WriteString(label)
	}
	text := padRight(b.String(), m.width)
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(m.theme.HeaderFG).Background(m.theme.HeaderBG).Bold(true).Render(text)
}

func (m *Model) renderStatus() string {
	text := m.status
	if text == "" {
		if line, ok := m.SelectedLine(); ok {
			text = fmt.Sprintf("%d/%d  %s", m.table.Cursor()+1, len(m.table.Rows()), displayPath(viewer.RowPath(line.KeyPath)))
		}
	}
	text = truncateWidth(" "+text, m.width)
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(m.theme.MutedColor).Render(text)
}

// lineRow converts a laid out line into TREE and HITS cells.
func lineRow(l jsontree.Line) table.Row {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", l.Depth))
	b.WriteString(l.Key)
	switch {
	case l.Value != nil:
		b.WriteString(": ")
		b.WriteString(l.Value.Text)
	case l.Summary != "":
		b.WriteString(" ")
		b.WriteString(l.Summary)
	}
	hits := ""
	if c, ok := l.Link(); ok {
		hits = "[" + c.Text + "]"
	} else if l.Accessed != nil {
		hits = l.Accessed.Text
	}
	return table.Row{b.String(), hits}
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
