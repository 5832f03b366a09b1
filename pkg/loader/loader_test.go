package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

const sampleJSON = `{
  "value": {"zeta": {"b": 1, "c": [true, null, 2.5]}, "alpha": "text"},
  "log": {"zeta.b": 3, "zeta": ["at f (a.js:1)", "at g (a.js:2)"], "alpha": {"count": 2, "traces": ["t"]}}
}`

func TestParseDocument_JSON(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleJSON))
	require.NoError(t, err)

	want := tree.ObjectValue(
		tree.F("zeta", tree.ObjectValue(
			tree.F("b", tree.IntValue(1)),
			tree.F("c", tree.ArrayValue(tree.BoolValue(true), tree.NullValue(), tree.FloatValue(2.5))),
		)),
		tree.F("alpha", tree.StringValue("text")),
	)
	if diff := cmp.Diff(want, doc.Value); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, accesslog.Log{
		"zeta.b": {Count: 3},
		"zeta":   {Traces: []string{"at f (a.js:1)", "at g (a.js:2)"}},
		"alpha":  {Count: 2, Traces: []string{"t"}},
	}, doc.Log)
}

func TestParseDocument_YAMLKeepsOrder(t *testing.T) {
	input := `
value:
  second: 2
  first: "1"
  third:
    - x
log:
  second: 4
`
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)
	keys := make([]string, 0, len(doc.Value.Fields))
	for _, f := range doc.Value.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"second", "first", "third"}, keys)

	first, ok := doc.Value.Lookup("first")
	require.True(t, ok)
	assert.Equal(t, tree.String, first.Kind, "quoted scalars stay strings")
	assert.Equal(t, 4, doc.Log.Count("second"))
}

func TestParseDocument_MissingLogIsEmpty(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"value": [1, 2]}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Log)
	assert.Empty(t, doc.Log)

	doc, err = ParseDocument([]byte(`{"value": 1, "log": null}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Log)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "  \n", ErrEmptyInput},
		{"no value key", `{"log": {}}`, ErrMissingValue},
		{"array root", `[1, 2]`, ErrMissingValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ParseDocument([]byte(`{"value": 1, "log": [1, 2]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access log must be an object")

	_, err = ParseDocument([]byte(`{"value": [1,`))
	require.Error(t, err)
}

func TestParseDocument_DuplicateKeysLastWins(t *testing.T) {
	doc, err := ParseDocument([]byte("value:\n  a: 1\n  b: 2\n"))
	require.NoError(t, err)
	require.Len(t, doc.Value.Fields, 2)

	var n yaml.Node
	n.Kind = yaml.MappingNode
	n.Content = []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "a"}, {Kind: yaml.ScalarNode, Tag: "!!int", Value: "1"},
		{Kind: yaml.ScalarNode, Value: "b"}, {Kind: yaml.ScalarNode, Tag: "!!int", Value: "2"},
		{Kind: yaml.ScalarNode, Value: "a"}, {Kind: yaml.ScalarNode, Tag: "!!int", Value: "3"},
	}
	v, err := ValueFromYAML(&n)
	require.NoError(t, err)
	assert.Equal(t, tree.ObjectValue(tree.F("a", tree.IntValue(3)), tree.F("b", tree.IntValue(2))), v)
}

func TestValueFromYAML_DepthGuard(t *testing.T) {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	cur := root
	for i := 0; i < MaxDepth+2; i++ {
		next := &yaml.Node{Kind: yaml.SequenceNode}
		cur.Content = []*yaml.Node{next}
		cur = next
	}
	_, err := ValueFromYAML(root)
	require.ErrorIs(t, err, ErrTooDeep)

	loop := &yaml.Node{Kind: yaml.SequenceNode}
	loop.Content = []*yaml.Node{{Kind: yaml.AliasNode, Alias: loop}}
	_, err = ValueFromYAML(loop)
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestParseDocument_AliasExpansionLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 9; i++ {
		fmt.Fprintf(&b, "a%d: &a%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*a%d", i-1)
		}
		b.WriteString("]\n")
	}
	b.WriteString("value: *a8\n")

	_, err := ParseDocument([]byte(b.String()))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestYAMLAliasesExpand(t *testing.T) {
	input := "value:\n  base: &b {x: 1}\n  copy: *b\n"
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)
	base, _ := doc.Value.Lookup("base")
	cp, _ := doc.Value.Lookup("copy")
	assert.Equal(t, base, cp)
}

func TestLoadDocumentAndLog(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "data.json")
	logPath := filepath.Join(dir, "log.yaml")
	require.NoError(t, os.WriteFile(docPath, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(logPath, []byte("zeta.c.0: 9\n"), 0o644))

	doc, err := LoadDocument(docPath)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Log.Count("zeta.b"))

	log, err := LoadLog(logPath)
	require.NoError(t, err)
	assert.Equal(t, 9, log.Count("zeta.c.0"))

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.json"))
}

func TestLoadDocument_ExampleTrace(t *testing.T) {
	doc, err := LoadDocument(filepath.Join("..", "..", "examples", "trace.json"))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Log.Count(""))
	assert.Equal(t, 6, doc.Log.Count("config.retries"))
	assert.Len(t, doc.Log.Traces("config.retries"), 2)
	assert.Equal(t, 0, doc.Log.Count("config.endpoints.0"))
	assert.Len(t, doc.Log.Traces("config.endpoints.0"), 1)

	coupon, ok := doc.Value.Lookup("cart")
	require.True(t, ok)
	coupon, ok = coupon.Lookup("coupon")
	require.True(t, ok)
	assert.Equal(t, tree.Null, coupon.Kind)
}
