package jsontree

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

type call struct {
	raw     any
	keyPath []string
}

// recorder captures every hook invocation.
func recorder(calls *[]call) RenderFunc {
	return func(raw any, keyPath []string) Cell {
		*calls = append(*calls, call{raw: raw, keyPath: append([]string(nil), keyPath...)})
		return Plain(raw, keyPath)
	}
}

func nested() *tree.Node {
	v := tree.ObjectValue(tree.F("a", tree.ObjectValue(tree.F("b", tree.IntValue(1)))))
	return tree.Annotate(v, accesslog.Log{"a.b": {Count: 3}})
}

func keyPaths(calls []call) [][]string {
	out := make([][]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.keyPath)
	}
	return out
}

func TestWalk_CompactKeyPaths(t *testing.T) {
	var calls []call
	lines := Walk(nested(), Options{}, recorder(&calls))

	want := [][]string{
		{"accessed", "root"},
		{"accessed", "a", "value", "root"},
		{"accessed", "b", "value", "a", "value", "root"},
		{"value", "b", "value", "a", "value", "root"},
	}
	if diff := cmp.Diff(want, keyPaths(calls)); diff != "" {
		t.Fatalf("key paths mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, calls[2].raw)

	require.Len(t, lines, 3)
	assert.Equal(t, []string{"root", "a", "b"}, []string{lines[0].Key, lines[1].Key, lines[2].Key})
	assert.Equal(t, []int{0, 1, 2}, []int{lines[0].Depth, lines[1].Depth, lines[2].Depth})
	assert.True(t, lines[0].Branch)
	assert.Equal(t, "{1}", lines[0].Summary)
	require.NotNil(t, lines[2].Value)
	assert.Equal(t, "1", lines[2].Value.Text)
	assert.Equal(t, "3", lines[2].Accessed.Text)
}

func TestWalk_WrappersUseSameKeyPaths(t *testing.T) {
	var compact, wrapped []call
	Walk(nested(), Options{}, recorder(&compact))
	lines := Walk(nested(), Options{Wrappers: true}, recorder(&wrapped))

	asSet := func(calls []call) map[string]any {
		out := map[string]any{}
		for _, c := range calls {
			out[strings.Join(c.keyPath, "/")] = c.raw
		}
		return out
	}
	if diff := cmp.Diff(asSet(compact), asSet(wrapped)); diff != "" {
		t.Fatalf("layouts disagree on hook calls (-compact +wrapped):\n%s", diff)
	}

	keys := make([]string, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, strings.Repeat(" ", l.Depth)+l.Key)
	}
	assert.Equal(t, []string{
		"root",
		" value",
		"  a",
		"   value",
		"    b",
		"     value",
		"     accessed",
		"   accessed",
		" accessed",
	}, keys)
}

func TestWalk_ArrayKeys(t *testing.T) {
	v := tree.ArrayValue(tree.StringValue("x"), tree.NullValue())
	var calls []call
	lines := Walk(tree.Annotate(v, nil), Options{}, recorder(&calls))

	require.Len(t, lines, 3)
	assert.Equal(t, "[2]", lines[0].Summary)
	assert.Equal(t, "0", lines[1].Key)
	assert.Equal(t, `"x"`, lines[1].Value.Text)
	assert.Equal(t, "null", lines[2].Value.Text)
	assert.Contains(t, keyPaths(calls), []string{"value", "1", "value", "root"})
}

func TestWalk_NilAndDefaults(t *testing.T) {
	assert.Nil(t, Walk(nil, Options{}, nil))

	lines := Walk(tree.Annotate(tree.StringValue("hi"), nil), Options{}, nil)
	require.Len(t, lines, 1)
	assert.Equal(t, RootKey, lines[0].Key)
	assert.Equal(t, `"hi"`, lines[0].Value.Text)
	assert.False(t, lines[0].Branch)
}

func TestWalk_MaxDepth(t *testing.T) {
	v := tree.ObjectValue(tree.F("a", tree.ObjectValue(tree.F("b", tree.IntValue(1)), tree.F("c", tree.IntValue(2)))))
	lines := Walk(tree.Annotate(v, nil), Options{MaxDepth: 2}, nil)

	require.Len(t, lines, 3)
	assert.True(t, lines[2].Truncated)
	assert.Equal(t, 2, lines[2].Depth)
}

func TestWalk_MaxStringLen(t *testing.T) {
	v := tree.ObjectValue(tree.F("s", tree.StringValue("abcdefghij")))
	lines := Walk(tree.Annotate(v, nil), Options{MaxStringLen: 6}, nil)
	assert.Equal(t, `"abc..."`, lines[1].Value.Text)
}

func TestLineLink(t *testing.T) {
	link := func(raw any, keyPath []string) Cell {
		if keyPath[0] == tree.AccessedKey {
			if n, ok := raw.(int); ok && n > 0 {
				return Cell{Text: "3", Link: "a.b", Linked: true}
			}
		}
		return Plain(raw, keyPath)
	}
	lines := Walk(nested(), Options{}, link)

	_, ok := lines[0].Link()
	assert.False(t, ok)
	c, ok := lines[2].Link()
	require.True(t, ok)
	assert.Equal(t, "a.b", c.Link)

	wrapped := Walk(nested(), Options{Wrappers: true}, link)
	var found []string
	for _, l := range wrapped {
		if c, ok := l.Link(); ok {
			found = append(found, strings.Join(l.KeyPath, "/")+"="+c.Link)
		}
	}
	assert.Equal(t, []string{"accessed/b/value/a/value/root=a.b"}, found)
}

func TestRender_Plain(t *testing.T) {
	link := func(raw any, keyPath []string) Cell {
		if n, ok := raw.(int); ok && keyPath[0] == tree.AccessedKey && n > 0 {
			return Cell{Text: "3", Link: "a.b", Linked: true}
		}
		return Plain(raw, keyPath)
	}
	out := Render(nested(), Options{}, link, PlainStyles())

	assert.True(t, strings.HasPrefix(out, "root {1} (0)\n"), out)
	assert.Contains(t, out, "a {1} (0)")
	assert.Contains(t, out, "b: 1 [3]")
	assert.Contains(t, out, "└──")
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, Options{}, nil, PlainStyles()))
}
