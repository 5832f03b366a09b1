package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jtx/internal/jsontree"
	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/loader"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

func sampleDoc() *loader.Document {
	return &loader.Document{
		Value: tree.ObjectValue(
			tree.F("x", tree.ObjectValue(tree.F("y", tree.IntValue(1)), tree.F("z", tree.IntValue(2)))),
			tree.F("once", tree.BoolValue(true)),
		),
		Log: accesslog.Log{
			"x.y":  {Count: 4, Traces: []string{"trace1", "trace2"}},
			"x.z":  {Count: 2},
			"once": {Count: 1, Traces: []string{"only"}},
		},
	}
}

// linkFor finds the linked row for path in the displayed tree.
func linkFor(t *testing.T, v *Viewer, path string) jsontree.Cell {
	t.Helper()
	for _, line := range jsontree.Walk(v.Displayed(), jsontree.Options{}, v.RenderValue) {
		if c, ok := line.Link(); ok && c.Link == path {
			return c
		}
	}
	t.Fatalf("no link for %q", path)
	return jsontree.Cell{}
}

func TestTracePath(t *testing.T) {
	tests := []struct {
		keyPath []string
		want    string
	}{
		{[]string{"accessed", "y", "value", "x", "value", "root"}, "x.y"},
		{[]string{"accessed", "a", "value", "root"}, "a"},
		{[]string{"accessed", "root"}, ""},
		{[]string{"accessed", "2", "value", "list", "value", "root"}, "list.2"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TracePath(tt.keyPath), tt.keyPath)
	}
}

func TestRenderValue(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)

	c := v.RenderValue(4, []string{"accessed", "y", "value", "x", "value", "root"})
	assert.Equal(t, jsontree.Cell{Text: "4", Link: "x.y", Linked: true}, c)

	assert.False(t, v.RenderValue(0, []string{"accessed", "root"}).Linked, "zero is not clickable")
	assert.True(t, v.RenderValue(1, []string{"accessed", "once", "value", "root"}).Linked, "one is clickable")

	plain := v.RenderValue(7, []string{"value", "y", "value", "x", "value", "root"})
	assert.Equal(t, jsontree.Cell{Text: "7"}, plain, "numbers under value are data, not counts")
	assert.Equal(t, jsontree.Cell{Text: "s"}, v.RenderValue("s", []string{"accessed", "root"}))
}

func TestActivateSelectsTraces(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	require.Nil(t, v.Selection())

	require.True(t, v.Activate(linkFor(t, v, "x.y")))
	sel := v.Selection()
	require.NotNil(t, sel)
	assert.Equal(t, "x.y", sel.Path)
	assert.Equal(t, []string{"trace1", "trace2"}, sel.Traces)
}

func TestActivateMissingTracesGivesEmptyList(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	require.True(t, v.Activate(linkFor(t, v, "x.z")))

	sel := v.Selection()
	require.NotNil(t, sel)
	assert.NotNil(t, sel.Traces)
	assert.Empty(t, sel.Traces)
}

func TestActivateIgnoresPlainCells(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	assert.False(t, v.Activate(jsontree.Cell{Text: "0"}))
	assert.Nil(t, v.Selection())
}

func TestLastActivationWins(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	v.Activate(linkFor(t, v, "x.y"))
	v.Activate(linkFor(t, v, "once"))
	assert.Equal(t, &Selection{Path: "once", Traces: []string{"only"}}, v.Selection())
}

func TestCloseClearsSelection(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	v.Activate(linkFor(t, v, "x.y"))
	v.Close()
	assert.Nil(t, v.Selection())
	v.Close()
	assert.Nil(t, v.Selection())
}

func TestThresholdBoundary(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAccessed)
	_, ok := v.Displayed().At("once")
	assert.False(t, ok, "a single access is filtered out")

	v.SetMode(tree.ModeAll)
	c := linkFor(t, v, "once")
	assert.True(t, c.Linked, "but still clickable when shown")
}

func TestToggleModeRefilters(t *testing.T) {
	v := New(sampleDoc(), tree.ModeAll)
	assert.Len(t, v.Displayed().Children, 2)

	assert.Equal(t, tree.ModeAccessed, v.ToggleMode())
	assert.Len(t, v.Displayed().Children, 1)
	assert.Len(t, v.Annotated().Children, 2, "annotation is untouched")

	assert.Equal(t, tree.ModeAll, v.ToggleMode())
	assert.Len(t, v.Displayed().Children, 2)
}

func TestNewWithNilDocument(t *testing.T) {
	v := New(nil, tree.ModeAll)
	assert.Equal(t, tree.Null, v.Displayed().Kind)
	assert.NotNil(t, v.Log())
}

func TestModeLabel(t *testing.T) {
	assert.Equal(t, "Show All", ModeLabel(tree.ModeAll))
	assert.Equal(t, "Show Only Accessed", ModeLabel(tree.ModeAccessed))
	assert.Equal(t, "other", ModeLabel(tree.Mode("other")))
}

func TestRowPath(t *testing.T) {
	assert.Equal(t, "", RowPath([]string{"root"}))
	assert.Equal(t, "x.y", RowPath([]string{"y", "value", "x", "value", "root"}))
	assert.Equal(t, "x", RowPath([]string{"accessed", "x", "value", "root"}))
	assert.Equal(t, "x", RowPath([]string{"value", "x", "value", "root"}))
	assert.Equal(t, "value", RowPath([]string{"value", "value", "root"}), "a key named value is still a key")
}
