package table

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Item is a simple row type for exercising the generic table.
type Item struct {
	Key  string
	Hits string
}

func makeModel() *Model[Item] {
	cols := []Column{{Title: "TREE", Width: 10}, {Title: "HITS", Width: 6}}
	return NewModel[Item](cols, func(v Item) Row { return Row{v.Key, v.Hits} })
}

func TestTable_SetRows(t *testing.T) {
	m := makeModel()
	m.SetRows([]Item{{"root", "0"}, {"a", "[3]"}})

	require.Len(t, m.Rows(), 2)
	out := m.View()
	assert.Contains(t, out, "TREE")
	assert.Contains(t, out, "[3]")
}

func TestTable_CursorSelection(t *testing.T) {
	m := makeModel()
	assert.Nil(t, m.SelectedRow(), "empty table has no selection")

	m.SetRows([]Item{{"root", "0"}, {"a", "1"}})
	sel := m.SelectedRow()
	require.NotNil(t, sel)
	assert.Equal(t, "root", sel.Key)

	m.SetCursor(1)
	assert.Equal(t, "a", m.SelectedRow().Key)

	m.SetRows([]Item{{"only", "0"}})
	assert.Equal(t, "only", m.SelectedRow().Key, "cursor is clamped after shrinking")
}

func TestTable_UpdateMovesCursor(t *testing.T) {
	m := makeModel()
	m.SetSize(20, 6)
	m.SetRows([]Item{{"root", "0"}, {"a", "1"}, {"b", "2"}})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())
}

func TestTable_NoColorAndColumns(t *testing.T) {
	m := makeModel()
	m.SetColors(lipgloss.Color("81"), lipgloss.Color("250"), lipgloss.Color("24"))
	m.SetNoColor(true)
	m.SetColumns([]Column{{Title: "TREE", Width: 4}, {Title: "HITS", Width: 4}})
	m.SetRows([]Item{{"root", "0"}})

	assert.Len(t, m.Columns(), 2)
	assert.True(t, strings.HasPrefix(m.String(), "Table[rows=1"))
}
